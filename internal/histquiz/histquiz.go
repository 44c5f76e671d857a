// Package histquiz defines the core domain types shared across the engine.
// It has zero external dependencies — everything here is pure Go.
package histquiz

import "time"

// Mode selects one of the two daily games. An event may be consumed by at
// most one puzzle per mode, but may appear once in each.
type Mode string

const (
	ModeRange Mode = "range"
	ModeOrder Mode = "order"
)

// Valid reports whether m is one of the known game modes.
func (m Mode) Valid() bool {
	return m == ModeRange || m == ModeOrder
}

// Event is a single historical fact drawn from the shared pool. Immutable
// once created.
type Event struct {
	ID   string
	Year int
	Text string
}

// Puzzle is the day's frozen event set for one mode. Created once per
// calendar date per mode; immutable afterwards except for the denormalized
// aggregate counters kept outside this struct.
type Puzzle struct {
	ID         string
	Mode       Mode
	SeqNumber  int
	Date       string // YYYY-MM-DD
	Seed       uint32
	Events     []Event // presentation order
	TargetYear int     // range mode only; 0 for order mode
	CreatedAt  time.Time
}

// RangeAttempt is one submitted range guess. Immutable once recorded.
type RangeAttempt struct {
	Start     int       `json:"start"`
	End       int       `json:"end"`
	HintsUsed int       `json:"hintsUsed"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderAttempt is one submitted ordering plus the feedback derived for it.
type OrderAttempt struct {
	Ordering     []string  `json:"ordering"`
	Feedback     []string  `json:"feedback"` // "correct" / "incorrect" per position
	PairsCorrect int       `json:"pairsCorrect"`
	TotalPairs   int       `json:"totalPairs"`
	Timestamp    time.Time `json:"timestamp"`
}

// Play is the single record for a (player, puzzle) pair. Re-submission
// upserts rather than duplicates. CompletedAt is set once; a completed play
// is terminal and rejects further mutation.
type Play struct {
	ID            string
	PlayerID      string
	PuzzleID      string
	RangeAttempts []RangeAttempt
	OrderAttempts []OrderAttempt
	HintsUsed     int
	Score         int
	CompletedAt   *time.Time
	UpdatedAt     time.Time
}

// Completed reports whether the play is sealed.
func (p *Play) Completed() bool {
	return p.CompletedAt != nil
}
