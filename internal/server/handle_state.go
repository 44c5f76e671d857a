package server

import (
	"errors"
	"net/http"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

// GameStateResponse is the player's progress on today's puzzle.
type GameStateResponse struct {
	Mode          string                  `json:"mode"`
	Date          string                  `json:"date"`
	SeqNumber     int                     `json:"seqNumber"`
	HintsUsed     int                     `json:"hintsUsed"`
	RevealedHints []string                `json:"revealedHints,omitempty"` // range
	RangeAttempts []histquiz.RangeAttempt `json:"rangeAttempts,omitempty"`
	OrderAttempts []histquiz.OrderAttempt `json:"orderAttempts,omitempty"`
	Score         int                     `json:"score"`
	Completed     bool                    `json:"completed"`
	TargetYear    int                     `json:"targetYear,omitempty"` // revealed only once completed
}

func handleGameState(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		mode, ok := modeParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown game mode")
			return
		}

		puzzle, err := store.PuzzleByDate(r.Context(), mode, Today())
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no puzzle for today yet")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		play, err := store.GetPlay(r.Context(), playerID, puzzle.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := GameStateResponse{
			Mode:      string(puzzle.Mode),
			Date:      puzzle.Date,
			SeqNumber: puzzle.SeqNumber,
		}
		if play != nil {
			resp.HintsUsed = play.HintsUsed
			resp.RangeAttempts = play.RangeAttempts
			resp.OrderAttempts = play.OrderAttempts
			resp.Score = play.Score
			resp.Completed = play.Completed()
		}
		if mode == histquiz.ModeRange {
			// The first hint is always visible; further hints cost tiers.
			shown := 1
			if play != nil {
				shown += play.HintsUsed
			}
			if shown > len(puzzle.Events) {
				shown = len(puzzle.Events)
			}
			for _, ev := range puzzle.Events[:shown] {
				resp.RevealedHints = append(resp.RevealedHints, ev.Text)
			}
			if resp.Completed {
				resp.TargetYear = puzzle.TargetYear
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
