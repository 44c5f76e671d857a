// Package validate re-derives every client-submitted result from the
// server's own puzzle truth before anything is persisted. Nothing the
// client asserts — feedback, pair counts, scores — is trusted; a mismatch
// is evidence of tampering or a client bug, never retried and never
// silently corrected.
package validate

import (
	"errors"
	"fmt"

	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/scoring"
)

var (
	// ErrIdentityMismatch: the claimed user id is not the authenticated one.
	ErrIdentityMismatch = errors.New("claimed player does not match authenticated player")

	// ErrPlaySealed: the play is completed; late mutations are rejected.
	ErrPlaySealed = errors.New("play is already completed")

	// ErrNotSolved: the final submitted ordering does not solve the puzzle.
	ErrNotSolved = errors.New("final ordering does not solve the puzzle")

	// ErrFinalAttemptNotSolved: the trailing attempt in the history is not
	// itself solved — a fabricated success appended to a genuine ordering.
	ErrFinalAttemptNotSolved = errors.New("last attempt in history is not solved")

	// ErrNoAttempts: a submission must carry the history that produced it.
	ErrNoAttempts = errors.New("submission has no attempts")
)

// AttemptMismatchError reports the first attempt whose client-asserted
// feedback or pair counts diverge from the server's recomputation.
type AttemptMismatchError struct {
	Attempt int // 0-based index into the submitted history
	Detail  string
}

func (e *AttemptMismatchError) Error() string {
	return fmt.Sprintf("attempt %d does not match recomputed feedback: %s", e.Attempt, e.Detail)
}

// OrderSubmission is the client payload for a completed order-mode play.
type OrderSubmission struct {
	PlayerID      string
	FinalOrdering []string
	Attempts      []histquiz.OrderAttempt
}

// Order runs the fail-closed validation protocol for an order-mode
// submission, in order, stopping at the first violation:
//
//  1. the final ordering must actually solve the puzzle,
//  2. every attempt's asserted feedback and pair counts must equal the
//     server's recomputation,
//  3. the last attempt must itself be solved and match the final ordering.
//
// It returns the recomputed attempts — callers persist those, never the
// client's copies.
func Order(sub OrderSubmission, truth []histquiz.Event, authenticatedPlayer string, play *histquiz.Play) ([]histquiz.OrderAttempt, error) {
	if sub.PlayerID != authenticatedPlayer {
		return nil, ErrIdentityMismatch
	}
	if play != nil && play.Completed() {
		return nil, ErrPlaySealed
	}
	if len(sub.Attempts) == 0 {
		return nil, ErrNoAttempts
	}

	final := scoring.ScoreOrder(sub.FinalOrdering, truth)
	if !final.Solved {
		return nil, ErrNotSolved
	}

	recomputed := make([]histquiz.OrderAttempt, len(sub.Attempts))
	for i, att := range sub.Attempts {
		res := scoring.ScoreOrder(att.Ordering, truth)
		if err := compareAttempt(att, res); err != nil {
			return nil, &AttemptMismatchError{Attempt: i, Detail: err.Error()}
		}
		recomputed[i] = histquiz.OrderAttempt{
			Ordering:     att.Ordering,
			Feedback:     res.Feedback,
			PairsCorrect: res.PairsCorrect,
			TotalPairs:   res.TotalPairs,
			Timestamp:    att.Timestamp,
		}
	}

	last := scoring.ScoreOrder(sub.Attempts[len(sub.Attempts)-1].Ordering, truth)
	if !last.Solved {
		return nil, ErrFinalAttemptNotSolved
	}
	if !sameOrdering(sub.Attempts[len(sub.Attempts)-1].Ordering, sub.FinalOrdering) {
		return nil, ErrFinalAttemptNotSolved
	}

	return recomputed, nil
}

func compareAttempt(att histquiz.OrderAttempt, res scoring.OrderResult) error {
	if len(att.Feedback) != len(res.Feedback) {
		return fmt.Errorf("feedback length %d, recomputed %d", len(att.Feedback), len(res.Feedback))
	}
	for i := range res.Feedback {
		if att.Feedback[i] != res.Feedback[i] {
			return fmt.Errorf("position %d asserted %q, recomputed %q", i, att.Feedback[i], res.Feedback[i])
		}
	}
	if att.PairsCorrect != res.PairsCorrect {
		return fmt.Errorf("pairsCorrect asserted %d, recomputed %d", att.PairsCorrect, res.PairsCorrect)
	}
	if att.TotalPairs != res.TotalPairs {
		return fmt.Errorf("totalPairs asserted %d, recomputed %d", att.TotalPairs, res.TotalPairs)
	}
	return nil
}

func sameOrdering(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RangeSubmission is the client payload for one range-mode guess. The
// client never supplies a score; hintsUsed comes from the server-held
// counter, not this payload.
type RangeSubmission struct {
	PlayerID string
	Start    int
	End      int
}

// Range recomputes containment and score from the stored truth. Width and
// inversion violations surface as the scoring engine's input errors.
func Range(sub RangeSubmission, targetYear, hintsUsed int, authenticatedPlayer string, play *histquiz.Play) (scoring.RangeResult, error) {
	if sub.PlayerID != authenticatedPlayer {
		return scoring.RangeResult{}, ErrIdentityMismatch
	}
	if play != nil && play.Completed() {
		return scoring.RangeResult{}, ErrPlaySealed
	}
	return scoring.ScoreRange(sub.Start, sub.End, hintsUsed, targetYear)
}
