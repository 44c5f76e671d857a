package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

// PuzzleEventInfo is one order-mode event as shown to players: no year.
type PuzzleEventInfo struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PuzzleTodayResponse is today's puzzle with all answers withheld. Range
// mode exposes only the first hint; order mode exposes events without
// years, in presentation order.
type PuzzleTodayResponse struct {
	Mode       string            `json:"mode"`
	Date       string            `json:"date"`
	SeqNumber  int               `json:"seqNumber"`
	TotalHints int               `json:"totalHints,omitempty"` // range
	FirstHint  string            `json:"firstHint,omitempty"`  // range
	Events     []PuzzleEventInfo `json:"events,omitempty"`     // order
}

func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func modeParam(r *http.Request) (histquiz.Mode, bool) {
	mode := histquiz.Mode(chi.URLParam(r, "mode"))
	return mode, mode.Valid()
}

func handlePuzzleToday(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		resp := PuzzleTodayResponse{
			Mode:      string(puzzle.Mode),
			Date:      puzzle.Date,
			SeqNumber: puzzle.SeqNumber,
		}
		switch mode {
		case histquiz.ModeRange:
			resp.TotalHints = len(puzzle.Events)
			if len(puzzle.Events) > 0 {
				resp.FirstHint = puzzle.Events[0].Text
			}
		case histquiz.ModeOrder:
			resp.Events = make([]PuzzleEventInfo, len(puzzle.Events))
			for i, ev := range puzzle.Events {
				resp.Events[i] = PuzzleEventInfo{ID: ev.ID, Text: ev.Text}
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// PuzzleStatsResponse is the public aggregate view of today's puzzle.
type PuzzleStatsResponse struct {
	Mode         string  `json:"mode"`
	Date         string  `json:"date"`
	Plays        int64   `json:"plays"`
	Completions  int64   `json:"completions"`
	AverageScore float64 `json:"averageScore"`
}

func handlePuzzleStats(store Store, stats Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		st, err := stats.Get(r.Context(), puzzle.ID)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "stats unavailable")
			return
		}

		resp := PuzzleStatsResponse{
			Mode:        string(puzzle.Mode),
			Date:        puzzle.Date,
			Plays:       st.Plays,
			Completions: st.Completions,
		}
		if st.Completions > 0 {
			resp.AverageScore = float64(st.ScoreSum) / float64(st.Completions)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
