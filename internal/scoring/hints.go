package scoring

import (
	"fmt"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

// HintKind is the closed set of order-mode hint shapes. The set is fixed, so
// every operation switches exhaustively instead of dispatching dynamically.
type HintKind string

const (
	// HintAnchor reveals the exact year of one event.
	HintAnchor HintKind = "anchor"
	// HintRelative states that one event precedes another.
	HintRelative HintKind = "relative"
	// HintBracket bounds one event between two decades.
	HintBracket HintKind = "bracket"
)

// OrderHint is one rendered hint for an order puzzle.
type OrderHint struct {
	Kind HintKind `json:"kind"`
	Text string   `json:"text"`
}

// NextOrderHint renders the nth hint (0-based) for the puzzle truth. Hints
// cycle anchor, then relative, then bracket over the canonical order so
// consecutive hints never repeat a shape, and the same (truth, n) always
// yields the same hint.
func NextOrderHint(truth []histquiz.Event, n int) (OrderHint, error) {
	if n < 0 {
		return OrderHint{}, fmt.Errorf("hint index %d is negative", n)
	}
	canonical := CanonicalOrder(truth)
	if len(canonical) < 2 {
		return OrderHint{}, fmt.Errorf("order hints need at least 2 events, have %d", len(canonical))
	}

	kind := []HintKind{HintAnchor, HintRelative, HintBracket}[n%3]
	pick := (n / 3) % len(canonical)

	switch kind {
	case HintAnchor:
		ev := canonical[pick]
		return OrderHint{
			Kind: HintAnchor,
			Text: fmt.Sprintf("%q happened in %d.", ev.Text, ev.Year),
		}, nil
	case HintRelative:
		a := canonical[pick]
		b := canonical[(pick+1)%len(canonical)]
		if a.Year > b.Year {
			a, b = b, a
		}
		return OrderHint{
			Kind: HintRelative,
			Text: fmt.Sprintf("%q happened before %q.", a.Text, b.Text),
		}, nil
	case HintBracket:
		ev := canonical[pick]
		lo := ev.Year - ev.Year%10
		return OrderHint{
			Kind: HintBracket,
			Text: fmt.Sprintf("%q happened between %d and %d.", ev.Text, lo, lo+10),
		}, nil
	}
	return OrderHint{}, fmt.Errorf("unknown hint kind %q", kind)
}
