package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Store     Store
	DB        *sql.DB
	Redis     *redis.Client
	Stats     Stats
	Generator *Generator
}

func addRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("HistQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, d.DB, d.Redis))

	// Player routes — Bearer session tokens from POST /api/players.
	r.Route("/api", func(r chi.Router) {
		r.Post("/players", handleRegister(d.Store))

		r.Get("/puzzle/{mode}/today", handlePuzzleToday(d.Store))
		r.Get("/puzzle/{mode}/today/stats", handlePuzzleStats(d.Store, d.Stats))

		r.Get("/game/{mode}/state", handleGameState(d.Store))
		r.Post("/game/range/hint", handleRangeHint(d.Store, d.Stats))
		r.Post("/game/range/guess", handleRangeGuess(d.Store, d.Stats))
		r.Post("/game/order/hint", handleOrderHint(d.Store, d.Stats))
		r.Post("/game/order/submit", handleOrderSubmit(d.Store, d.Stats))
	})

	// Admin — cookie sessions, shared DB.
	r.Post("/api/admin/login", handleAdminLogin(d.DB))
	r.Post("/api/admin/logout", handleAdminLogout(d.DB))
	r.Get("/api/admin/me", handleAdminMe(d.DB))
	r.Get("/api/admin/puzzles", handleAdminListPuzzles(d.DB, d.Store))
	r.Post("/api/admin/puzzles/generate", handleAdminGenerate(d.DB, d.Generator))
}
