package server

import (
	"net/http"
	"time"

	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/scoring"
	"github.com/chronoplay/histquiz/internal/validate"
)

// Order-mode scoring: a first-attempt no-hint solve earns the base; every
// extra attempt and every hint eats into it, down to the floor.
const (
	orderBaseScore    = 1000
	orderAttemptCost  = 150
	orderHintCost     = 50
	orderMinimumScore = 100
)

func orderScore(attempts, hints int) int {
	score := orderBaseScore - orderAttemptCost*(attempts-1) - orderHintCost*hints
	if score < orderMinimumScore {
		return orderMinimumScore
	}
	return score
}

func handleOrderHint(store Store, stats Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, puzzle, play, ok := loadTodayGame(w, r, store, histquiz.ModeOrder)
		if !ok {
			return
		}

		started := play == nil
		if play == nil {
			play = newPlay(playerID, puzzle.ID)
		}
		if play.Completed() {
			writeError(w, http.StatusConflict, "play is already completed")
			return
		}

		hint, err := scoring.NextOrderHint(puzzle.Events, play.HintsUsed)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		play.HintsUsed++
		if err := store.UpsertPlay(r.Context(), *play); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if started {
			stats.PlayStarted(r.Context(), puzzle.ID)
		}

		writeJSON(w, http.StatusOK, struct {
			HintsUsed int               `json:"hintsUsed"`
			Hint      scoring.OrderHint `json:"hint"`
		}{play.HintsUsed, hint})
	}
}

// OrderSubmitRequest is the full play: every attempt the client made with
// the feedback it claims to have shown, plus the final ordering. All of it
// is recomputed server-side before anything is stored.
type OrderSubmitRequest struct {
	PlayerID      string                  `json:"playerId,omitempty"`
	FinalOrdering []string                `json:"finalOrdering"`
	Attempts      []histquiz.OrderAttempt `json:"attempts"`
}

// OrderSubmitResponse is the recorded result.
type OrderSubmitResponse struct {
	Solved       bool `json:"solved"`
	Attempts     int  `json:"attempts"`
	PairsCorrect int  `json:"pairsCorrect"`
	TotalPairs   int  `json:"totalPairs"`
	Score        int  `json:"score"`
}

func handleOrderSubmit(store Store, stats Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, puzzle, play, ok := loadTodayGame(w, r, store, histquiz.ModeOrder)
		if !ok {
			return
		}

		var req OrderSubmitRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			req.PlayerID = playerID
		}

		started := play == nil
		if play == nil {
			play = newPlay(playerID, puzzle.ID)
		}

		recomputed, err := validate.Order(validate.OrderSubmission{
			PlayerID:      req.PlayerID,
			FinalOrdering: req.FinalOrdering,
			Attempts:      req.Attempts,
		}, puzzle.Events, playerID, play)
		if err != nil {
			writeValidationError(w, err)
			return
		}

		now := time.Now().UTC()
		play.OrderAttempts = recomputed
		play.Score = orderScore(len(recomputed), play.HintsUsed)
		play.CompletedAt = &now

		if err := store.UpsertPlay(r.Context(), *play); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if started {
			stats.PlayStarted(r.Context(), puzzle.ID)
		}
		stats.Completed(r.Context(), puzzle.ID, play.Score)

		last := recomputed[len(recomputed)-1]
		writeJSON(w, http.StatusOK, OrderSubmitResponse{
			Solved:       true,
			Attempts:     len(recomputed),
			PairsCorrect: last.PairsCorrect,
			TotalPairs:   last.TotalPairs,
			Score:        play.Score,
		})
	}
}
