package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "HistQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the HistQuiz daily history game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/players
	postPlayers, _ := r.NewOperationContext(http.MethodPost, "/api/players")
	postPlayers.SetSummary("Register anonymous player")
	postPlayers.SetDescription("Creates an anonymous player and returns its Bearer token.")
	postPlayers.AddRespStructure(RegisterResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postPlayers)

	// GET /api/puzzle/{mode}/today
	getToday, _ := r.NewOperationContext(http.MethodGet, "/api/puzzle/{mode}/today")
	getToday.SetSummary("Today's puzzle")
	getToday.SetDescription("Returns today's puzzle for the mode with all answers withheld.")
	getToday.AddRespStructure(PuzzleTodayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getToday.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getToday)

	// GET /api/puzzle/{mode}/today/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/puzzle/{mode}/today/stats")
	getStats.SetSummary("Today's puzzle stats")
	getStats.SetDescription("Aggregate play and completion counters for today's puzzle.")
	getStats.AddRespStructure(PuzzleStatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStats)

	// GET /api/game/{mode}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/{mode}/state")
	getState.SetSummary("Get play state")
	getState.SetDescription("Returns the player's progress on today's puzzle. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/range/hint
	postRangeHint, _ := r.NewOperationContext(http.MethodPost, "/api/game/range/hint")
	postRangeHint.SetSummary("Reveal range hint")
	postRangeHint.SetDescription("Reveals the next hint and lowers the score ceiling. Requires Bearer token.")
	postRangeHint.AddRespStructure(RangeHintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRangeHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRangeHint)

	// POST /api/game/range/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/range/guess")
	postGuess.SetSummary("Submit range guess")
	postGuess.SetDescription("Submits a year range; the server derives containment and score. Requires Bearer token.")
	postGuess.AddReqStructure(RangeGuessRequest{})
	postGuess.AddRespStructure(RangeGuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// POST /api/game/order/hint
	postOrderHint, _ := r.NewOperationContext(http.MethodPost, "/api/game/order/hint")
	postOrderHint.SetSummary("Reveal order hint")
	postOrderHint.SetDescription("Returns the next anchor, relative, or bracket hint. Requires Bearer token.")
	postOrderHint.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postOrderHint)

	// POST /api/game/order/submit
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/game/order/submit")
	postSubmit.SetSummary("Submit order play")
	postSubmit.SetDescription("Submits the full attempt history and final ordering for server-side validation. Requires Bearer token.")
	postSubmit.AddReqStructure(OrderSubmitRequest{})
	postSubmit.AddRespStructure(OrderSubmitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postSubmit)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/puzzles
	listPuzzles, _ := r.NewOperationContext(http.MethodGet, "/api/admin/puzzles")
	listPuzzles.SetSummary("List puzzles")
	listPuzzles.SetDescription("Returns all puzzles with play counts. Requires admin_session cookie.")
	listPuzzles.AddRespStructure([]PuzzleSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listPuzzles.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listPuzzles)

	// POST /api/admin/puzzles/generate
	postGenerate, _ := r.NewOperationContext(http.MethodPost, "/api/admin/puzzles/generate")
	postGenerate.SetSummary("Generate puzzles")
	postGenerate.SetDescription("Forces daily generation for a date. Existing puzzles are left untouched. Requires admin_session cookie.")
	postGenerate.AddReqStructure(AdminGenerateRequest{})
	postGenerate.AddRespStructure(AdminGenerateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postGenerate)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(spec)
	}
}
