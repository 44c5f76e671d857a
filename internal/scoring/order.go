package scoring

import (
	"sort"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

// Feedback values for one position.
const (
	FeedbackCorrect   = "correct"
	FeedbackIncorrect = "incorrect"
)

// OrderResult is the full derived feedback for one submitted ordering.
type OrderResult struct {
	Feedback     []string
	PairsCorrect int
	TotalPairs   int
	Solved       bool
}

// CanonicalOrder sorts events by year ascending; equal years break ties by
// event id so every truth set has exactly one canonical ordering. The input
// is not mutated.
func CanonicalOrder(truth []histquiz.Event) []histquiz.Event {
	out := make([]histquiz.Event, len(truth))
	copy(out, truth)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ScoreOrder derives positional and pairwise feedback for one submitted
// ordering. Positional feedback compares slot-for-slot against the canonical
// order, so a fully reversed submission can still show an interior position
// as correct; pairwise accuracy is the more informative headline metric.
// Solved is strictly positional: every slot correct, which is equivalent to
// pairsCorrect == totalPairs.
func ScoreOrder(submitted []string, truth []histquiz.Event) OrderResult {
	canonical := CanonicalOrder(truth)
	n := len(canonical)

	res := OrderResult{
		Feedback:   make([]string, len(submitted)),
		TotalPairs: n * (n - 1) / 2,
	}

	solved := len(submitted) == n
	for i := range submitted {
		if i < n && submitted[i] == canonical[i].ID {
			res.Feedback[i] = FeedbackCorrect
		} else {
			res.Feedback[i] = FeedbackIncorrect
			solved = false
		}
	}
	res.Solved = solved

	// Rank of each event in the canonical order.
	rank := make(map[string]int, n)
	for i, ev := range canonical {
		rank[ev.ID] = i
	}

	for i := 0; i < len(submitted); i++ {
		ri, ok := rank[submitted[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(submitted); j++ {
			rj, ok := rank[submitted[j]]
			if !ok {
				continue
			}
			if ri < rj {
				res.PairsCorrect++
			}
		}
	}
	return res
}
