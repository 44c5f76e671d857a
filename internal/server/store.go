package server

import (
	"context"
	"errors"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

var ErrNotFound = errors.New("not found")

var errNoSession = errors.New("no valid session")

// PuzzleSummary is the admin-facing puzzle listing row.
type PuzzleSummary struct {
	ID        string `json:"id"`
	Mode      string `json:"mode"`
	SeqNumber int    `json:"seqNumber"`
	Date      string `json:"date"`
	PlayCount int    `json:"playCount"`
	CreatedAt string `json:"createdAt"`
}

// Store is the persistence boundary for the game. CreatePuzzle must provide
// the atomic create-if-absent-by-(mode,date) guarantee the generation job
// relies on; plays upsert by (player, puzzle).
type Store interface {
	CreatePlayer(ctx context.Context) (playerID, token string, err error)
	PlayerFromToken(ctx context.Context, token string) (string, error)

	// UnusedEvents returns pool events not yet consumed in the given mode.
	UnusedEvents(ctx context.Context, mode histquiz.Mode) ([]histquiz.Event, error)
	// MarkEventsUsed records the consuming puzzle on the mode's
	// back-reference column for each event.
	MarkEventsUsed(ctx context.Context, mode histquiz.Mode, puzzleID string, eventIDs []string) error
	CountEvents(ctx context.Context) (int, error)
	InsertEvents(ctx context.Context, events []histquiz.Event) error

	// CreatePuzzle inserts the puzzle unless one already exists for its
	// (mode, date), assigning seq_number = max+1 atomically. It returns the
	// persisted puzzle either way; created reports whether this call won.
	CreatePuzzle(ctx context.Context, p histquiz.Puzzle) (stored histquiz.Puzzle, created bool, err error)
	PuzzleByDate(ctx context.Context, mode histquiz.Mode, date string) (histquiz.Puzzle, error)
	ListPuzzles(ctx context.Context) ([]PuzzleSummary, error)

	// GetPlay returns nil (no error) when the player has no play yet.
	GetPlay(ctx context.Context, playerID, puzzleID string) (*histquiz.Play, error)
	UpsertPlay(ctx context.Context, play histquiz.Play) error
}
