// Package scoring holds the pure scoring functions for both game modes.
// Nothing here touches storage or the network; handlers and the validator
// call into it with explicit inputs so results are reproducible anywhere.
package scoring

import (
	"errors"
	"fmt"
)

const (
	// WMax is the widest permitted guess range, inclusive of both ends.
	// Wider submissions are rejected before scoring, not scored as zero.
	WMax = 300

	// WidthFloor guarantees a maximally wide but still correct guess earns
	// 4% of its hint tier's ceiling, never zero.
	WidthFloor = 0.04
)

// TierCeilings is the score ceiling per hints-used count. More hints, lower
// ceiling. Index beyond the last tier clamps to the final entry.
var TierCeilings = []int{1000, 850, 700, 550, 400, 250}

// ErrWidthExceeded rejects a range wider than WMax at the input boundary.
var ErrWidthExceeded = errors.New("guess range exceeds maximum width")

// ErrInvertedRange rejects a range whose start lies after its end.
var ErrInvertedRange = errors.New("guess range start is after end")

// RangeResult is the authoritative outcome of one range guess.
type RangeResult struct {
	Contained bool
	Width     int
	Score     int
}

// ScoreRange scores one range-mode guess against the hidden target year.
// Containment is binary: a target outside [start, end] scores zero no
// matter how narrow the range. Within the tier ceiling for hintsUsed, score
// decays quadratically with width down to the floor.
func ScoreRange(start, end, hintsUsed, target int) (RangeResult, error) {
	if start > end {
		return RangeResult{}, fmt.Errorf("%w: [%d, %d]", ErrInvertedRange, start, end)
	}
	width := end - start + 1
	if width > WMax {
		return RangeResult{}, fmt.Errorf("%w: width %d > %d", ErrWidthExceeded, width, WMax)
	}

	if target < start || target > end {
		return RangeResult{Contained: false, Width: width, Score: 0}, nil
	}

	ceiling := tierCeiling(hintsUsed)
	frac := float64(width-1) / float64(WMax-1)
	widthFactor := 1 - frac*frac*(1-WidthFloor)
	return RangeResult{
		Contained: true,
		Width:     width,
		Score:     int(float64(ceiling) * widthFactor),
	}, nil
}

func tierCeiling(hintsUsed int) int {
	if hintsUsed < 0 {
		hintsUsed = 0
	}
	if hintsUsed >= len(TierCeilings) {
		return TierCeilings[len(TierCeilings)-1]
	}
	return TierCeilings[hintsUsed]
}
