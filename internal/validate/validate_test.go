package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/scoring"
)

var truth = []histquiz.Event{
	{ID: "a", Year: 1990},
	{ID: "b", Year: 1995},
	{ID: "c", Year: 2000},
}

// attempt builds a history entry with honestly recomputed feedback.
func attempt(ordering ...string) histquiz.OrderAttempt {
	res := scoring.ScoreOrder(ordering, truth)
	return histquiz.OrderAttempt{
		Ordering:     ordering,
		Feedback:     res.Feedback,
		PairsCorrect: res.PairsCorrect,
		TotalPairs:   res.TotalPairs,
		Timestamp:    time.Now(),
	}
}

func TestOrderHonestSubmission(t *testing.T) {
	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"a", "b", "c"},
		Attempts: []histquiz.OrderAttempt{
			attempt("c", "b", "a"),
			attempt("a", "c", "b"),
			attempt("a", "b", "c"),
		},
	}

	rec, err := Order(sub, truth, "p1", nil)
	require.NoError(t, err)
	require.Len(t, rec, 3)
	require.Equal(t, 3, rec[2].PairsCorrect)
}

func TestOrderIdentityMismatch(t *testing.T) {
	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"a", "b", "c"},
		Attempts:      []histquiz.OrderAttempt{attempt("a", "b", "c")},
	}
	_, err := Order(sub, truth, "someone-else", nil)
	require.ErrorIs(t, err, ErrIdentityMismatch)
}

func TestOrderSealedPlayRejected(t *testing.T) {
	done := time.Now()
	play := &histquiz.Play{CompletedAt: &done}
	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"a", "b", "c"},
		Attempts:      []histquiz.OrderAttempt{attempt("a", "b", "c")},
	}
	_, err := Order(sub, truth, "p1", play)
	require.ErrorIs(t, err, ErrPlaySealed)
}

func TestOrderFinalNotSolved(t *testing.T) {
	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"c", "b", "a"},
		Attempts:      []histquiz.OrderAttempt{attempt("c", "b", "a")},
	}
	_, err := Order(sub, truth, "p1", nil)
	require.ErrorIs(t, err, ErrNotSolved)
}

func TestOrderFabricatedFeedbackRejected(t *testing.T) {
	// One flipped feedback entry in an otherwise genuine history must be
	// rejected even though the final ordering is truly correct.
	forged := attempt("c", "b", "a")
	forged.Feedback[0] = scoring.FeedbackCorrect

	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"a", "b", "c"},
		Attempts:      []histquiz.OrderAttempt{forged, attempt("a", "b", "c")},
	}
	_, err := Order(sub, truth, "p1", nil)

	var mismatch *AttemptMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 0, mismatch.Attempt)
}

func TestOrderFabricatedPairCountRejected(t *testing.T) {
	forged := attempt("a", "c", "b")
	forged.PairsCorrect = 3

	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"a", "b", "c"},
		Attempts:      []histquiz.OrderAttempt{forged, attempt("a", "b", "c")},
	}
	_, err := Order(sub, truth, "p1", nil)

	var mismatch *AttemptMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestOrderTrailingAttemptMustMatchFinal(t *testing.T) {
	// History ends on an unsolved attempt while the declared final ordering
	// is correct: a fabricated trailing success.
	sub := OrderSubmission{
		PlayerID:      "p1",
		FinalOrdering: []string{"a", "b", "c"},
		Attempts:      []histquiz.OrderAttempt{attempt("c", "b", "a")},
	}
	_, err := Order(sub, truth, "p1", nil)
	require.ErrorIs(t, err, ErrFinalAttemptNotSolved)
}

func TestOrderEmptyHistoryRejected(t *testing.T) {
	sub := OrderSubmission{PlayerID: "p1", FinalOrdering: []string{"a", "b", "c"}}
	_, err := Order(sub, truth, "p1", nil)
	require.ErrorIs(t, err, ErrNoAttempts)
}

func TestRangeRecomputesScore(t *testing.T) {
	res, err := Range(RangeSubmission{PlayerID: "p1", Start: 1960, End: 1979}, 1969, 1, "p1", nil)
	require.NoError(t, err)
	require.True(t, res.Contained)

	want, _ := scoring.ScoreRange(1960, 1979, 1, 1969)
	require.Equal(t, want.Score, res.Score)
}

func TestRangeWidthBoundary(t *testing.T) {
	_, err := Range(RangeSubmission{PlayerID: "p1", Start: 1000, End: 1000 + scoring.WMax}, 1200, 0, "p1", nil)
	require.True(t, errors.Is(err, scoring.ErrWidthExceeded))
}

func TestRangeIdentityAndSeal(t *testing.T) {
	_, err := Range(RangeSubmission{PlayerID: "p1", Start: 1900, End: 1910}, 1905, 0, "p2", nil)
	require.ErrorIs(t, err, ErrIdentityMismatch)

	done := time.Now()
	_, err = Range(RangeSubmission{PlayerID: "p1", Start: 1900, End: 1910}, 1905, 0, "p1",
		&histquiz.Play{CompletedAt: &done})
	require.ErrorIs(t, err, ErrPlaySealed)
}
