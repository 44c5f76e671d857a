package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthResponse maps dependency name to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func handleHealth(logger *slog.Logger, db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	type result struct {
		Status string `json:"status"`
	}

	checks := map[string]func(context.Context) error{
		"sqlite": db.PingContext,
		"redis":  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]result{}
		for name, check := range checks {
			body[name] = result{Status: "ok"}
			if err := check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				body[name] = result{Status: "error"}
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, body)
	}
}
