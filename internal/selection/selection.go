// Package selection picks the day's constraint-satisfying event subset from
// the shared pool. Selection is fully deterministic in (pool, seed, config);
// the retry-with-fallback policy on exhaustion belongs to the caller.
package selection

import (
	"fmt"

	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/rng"
)

// Config bounds one selection run.
type Config struct {
	Count        int
	MinSpan      int
	MaxSpan      int
	ExcludeYears map[int]bool
	MaxAttempts  int
}

// Fallback is the deliberately wide config the generation job retries with
// after a narrow config exhausts. Degrades span variety before availability.
var Fallback = Config{
	Count:       6,
	MinSpan:     500,
	MaxSpan:     5000,
	MaxAttempts: 1000,
}

// ExhaustedError reports that no subset satisfied the constraints within the
// attempt budget.
type ExhaustedError struct {
	Attempts int
	Config   Config
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("selection exhausted after %d attempts (span %d-%d)",
		e.Attempts, e.Config.MinSpan, e.Config.MaxSpan)
}

// DailyConfig rolls the day's difficulty from the date seed: roughly 15%
// narrow, 30% moderate, 55% wide. Deterministic per date so difficulty
// varies day to day without being guessable through UI behavior.
func DailyConfig(seed uint32) Config {
	roll, _ := rng.Next(seed)
	cfg := Config{Count: 6, MaxAttempts: 100}
	switch {
	case roll < 0.15:
		cfg.MinSpan, cfg.MaxSpan = 25, 100
	case roll < 0.45:
		cfg.MinSpan, cfg.MaxSpan = 100, 500
	default:
		cfg.MinSpan, cfg.MaxSpan = 500, 3000
	}
	return cfg
}

// Select repeatedly draws cfg.Count events from pool, keyed by
// seed + attempt index, and accepts the first subset whose year span falls
// within [MinSpan, MaxSpan], whose years are pairwise distinct, and whose
// years avoid ExcludeYears. Distinct years are part of the contract: the
// subset is an ordering puzzle, and two events from the same year would
// make the canonical order depend on a tiebreak invisible to players. The
// accepted subset is then reshuffled with the continued stream so
// presentation order carries no trace of selection order.
func Select(pool []histquiz.Event, seed uint32, cfg Config) ([]histquiz.Event, error) {
	if cfg.Count <= 0 || len(pool) < cfg.Count {
		return nil, &ExhaustedError{Attempts: 0, Config: cfg}
	}

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		s := rng.New(seed + uint32(attempt))
		subset := draw(s, pool, cfg.Count)
		if !acceptable(subset, cfg) {
			continue
		}
		rng.Shuffle(s, subset)
		return subset, nil
	}
	return nil, &ExhaustedError{Attempts: cfg.MaxAttempts, Config: cfg}
}

// draw picks count distinct events without mutating pool.
func draw(s *rng.Stream, pool []histquiz.Event, count int) []histquiz.Event {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(s, idx)

	subset := make([]histquiz.Event, count)
	for i := 0; i < count; i++ {
		subset[i] = pool[idx[i]]
	}
	return subset
}

func acceptable(subset []histquiz.Event, cfg Config) bool {
	minYear, maxYear := subset[0].Year, subset[0].Year
	seen := make(map[int]bool, len(subset))
	for _, ev := range subset {
		if cfg.ExcludeYears[ev.Year] || seen[ev.Year] {
			return false
		}
		seen[ev.Year] = true
		if ev.Year < minYear {
			minYear = ev.Year
		}
		if ev.Year > maxYear {
			maxYear = ev.Year
		}
	}
	span := maxYear - minYear
	return span >= cfg.MinSpan && span <= cfg.MaxSpan
}
