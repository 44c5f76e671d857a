package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/validate"
)

// MaxRangeGuesses seals a range play as failed after this many misses.
const MaxRangeGuesses = 5

// loadTodayGame resolves the authenticated player, today's puzzle for the
// mode, and the player's play (nil when none exists yet). It writes the
// error response itself on failure.
func loadTodayGame(w http.ResponseWriter, r *http.Request, store Store, mode histquiz.Mode) (string, histquiz.Puzzle, *histquiz.Play, bool) {
	playerID, err := playerFromRequest(r, store)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or missing session token")
		return "", histquiz.Puzzle{}, nil, false
	}

	puzzle, err := store.PuzzleByDate(r.Context(), mode, Today())
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "no puzzle for today yet")
		return "", histquiz.Puzzle{}, nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", histquiz.Puzzle{}, nil, false
	}

	play, err := store.GetPlay(r.Context(), playerID, puzzle.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", histquiz.Puzzle{}, nil, false
	}
	return playerID, puzzle, play, true
}

func newPlay(playerID, puzzleID string) *histquiz.Play {
	return &histquiz.Play{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		PuzzleID: puzzleID,
	}
}

// RangeHintResponse reveals one more hint.
type RangeHintResponse struct {
	HintsUsed int    `json:"hintsUsed"`
	Hint      string `json:"hint"`
}

func handleRangeHint(store Store, stats Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, puzzle, play, ok := loadTodayGame(w, r, store, histquiz.ModeRange)
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
		// Hint 0 is free; hints_used counts paid reveals beyond it.
		if play.HintsUsed >= len(puzzle.Events)-1 {
			writeError(w, http.StatusConflict, "no hints remaining")
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

		writeJSON(w, http.StatusOK, RangeHintResponse{
			HintsUsed: play.HintsUsed,
			Hint:      puzzle.Events[play.HintsUsed].Text,
		})
	}
}

// RangeGuessRequest is one range guess. PlayerID is optional; when present
// it must match the authenticated session.
type RangeGuessRequest struct {
	PlayerID string `json:"playerId,omitempty"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// RangeGuessResponse is the server-derived outcome.
type RangeGuessResponse struct {
	Contained  bool `json:"contained"`
	Score      int  `json:"score"`
	Attempts   int  `json:"attempts"`
	Completed  bool `json:"completed"`
	TargetYear int  `json:"targetYear,omitempty"` // only once completed
}

func handleRangeGuess(store Store, stats Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, puzzle, play, ok := loadTodayGame(w, r, store, histquiz.ModeRange)
		if !ok {
			return
		}

		var req RangeGuessRequest
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

		res, err := validate.Range(
			validate.RangeSubmission{PlayerID: req.PlayerID, Start: req.Start, End: req.End},
			puzzle.TargetYear, play.HintsUsed, playerID, play,
		)
		if err != nil {
			writeValidationError(w, err)
			return
		}

		now := time.Now().UTC()
		play.RangeAttempts = append(play.RangeAttempts, histquiz.RangeAttempt{
			Start:     req.Start,
			End:       req.End,
			HintsUsed: play.HintsUsed,
			Score:     res.Score,
			Timestamp: now,
		})

		if res.Contained {
			play.Score = res.Score
			play.CompletedAt = &now
		} else if len(play.RangeAttempts) >= MaxRangeGuesses {
			play.CompletedAt = &now
		}

		if err := store.UpsertPlay(r.Context(), *play); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if started {
			stats.PlayStarted(r.Context(), puzzle.ID)
		}
		if play.Completed() {
			stats.Completed(r.Context(), puzzle.ID, play.Score)
		}

		resp := RangeGuessResponse{
			Contained: res.Contained,
			Score:     res.Score,
			Attempts:  len(play.RangeAttempts),
			Completed: play.Completed(),
		}
		if play.Completed() {
			resp.TargetYear = puzzle.TargetYear
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
