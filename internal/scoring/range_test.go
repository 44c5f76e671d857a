package scoring

import (
	"errors"
	"testing"
)

func TestScoreRangeMiss(t *testing.T) {
	// A target outside the range scores zero no matter how narrow the
	// range or how few hints were used.
	cases := []struct {
		start, end, hints, target int
	}{
		{1900, 1910, 0, 1911},
		{1900, 1910, 0, 1899},
		{1950, 1950, 0, 1951},
		{1800, 1800 + WMax - 1, 5, 1700},
	}
	for _, c := range cases {
		res, err := ScoreRange(c.start, c.end, c.hints, c.target)
		if err != nil {
			t.Fatalf("[%d,%d] target %d: %v", c.start, c.end, c.target, err)
		}
		if res.Contained || res.Score != 0 {
			t.Errorf("[%d,%d] target %d: expected miss with score 0, got %+v",
				c.start, c.end, c.target, res)
		}
	}
}

func TestScoreRangeExactGuess(t *testing.T) {
	res, err := ScoreRange(1969, 1969, 0, 1969)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Contained || res.Score != TierCeilings[0] {
		t.Errorf("width-1 hit at 0 hints should earn the full ceiling %d, got %+v",
			TierCeilings[0], res)
	}
}

func TestScoreRangeWidthMonotonic(t *testing.T) {
	prev := -1
	for width := WMax; width >= 1; width-- {
		res, err := ScoreRange(1900, 1900+width-1, 0, 1950)
		if err != nil {
			t.Fatal(err)
		}
		if width >= 51 && !res.Contained {
			t.Fatalf("width %d should contain 1950", width)
		}
		if !res.Contained {
			continue
		}
		if res.Score < prev {
			t.Fatalf("score decreased from %d to %d as width shrank to %d", prev, res.Score, width)
		}
		prev = res.Score
	}
}

func TestScoreRangeHintsMonotonic(t *testing.T) {
	prev := int(^uint(0) >> 1)
	for hints := 0; hints < 8; hints++ {
		res, err := ScoreRange(1960, 1980, hints, 1969)
		if err != nil {
			t.Fatal(err)
		}
		if res.Score > prev {
			t.Fatalf("score rose from %d to %d at %d hints", prev, res.Score, hints)
		}
		prev = res.Score
	}
}

func TestScoreRangeFloorAtMaxWidth(t *testing.T) {
	for hints := 0; hints < len(TierCeilings); hints++ {
		res, err := ScoreRange(1700, 1700+WMax-1, hints, 1800)
		if err != nil {
			t.Fatal(err)
		}
		if res.Score <= 0 {
			t.Errorf("%d hints: maximally wide correct guess must score > 0", hints)
		}
		want := int(float64(TierCeilings[hints]) * WidthFloor)
		if res.Score != want {
			t.Errorf("%d hints: expected floor score %d, got %d", hints, want, res.Score)
		}
	}
}

func TestScoreRangeWidthExceededIsRejected(t *testing.T) {
	_, err := ScoreRange(1600, 1600+WMax, 0, 1700)
	if !errors.Is(err, ErrWidthExceeded) {
		t.Fatalf("expected ErrWidthExceeded, got %v", err)
	}
}

func TestScoreRangeInvertedRejected(t *testing.T) {
	_, err := ScoreRange(1950, 1940, 0, 1945)
	if !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("expected ErrInvertedRange, got %v", err)
	}
}
