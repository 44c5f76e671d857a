package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chronoplay/histquiz/internal/compose"
	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/judge"
	"github.com/chronoplay/histquiz/internal/rng"
	"github.com/chronoplay/histquiz/internal/selection"
)

// Generator builds the day's puzzles. Safe to run from multiple instances:
// puzzle creation is create-if-absent and "already exists" is success.
type Generator struct {
	store            Store
	judge            judge.Judge // nil disables the judge path
	logger           *slog.Logger
	seedSalt         string
	judgeMaxAttempts int
}

func NewGenerator(store Store, j judge.Judge, logger *slog.Logger, seedSalt string, judgeMaxAttempts int) *Generator {
	return &Generator{
		store:            store,
		judge:            j,
		logger:           logger,
		seedSalt:         seedSalt,
		judgeMaxAttempts: judgeMaxAttempts,
	}
}

// DailyOutcome reports which mode puzzles a run created vs found existing.
type DailyOutcome struct {
	Created []string
	Existed []string
}

// EnsureDaily makes sure both mode puzzles exist for the date. A failure in
// one mode does not block the other; errors are joined.
func (g *Generator) EnsureDaily(ctx context.Context, date string) (DailyOutcome, error) {
	var out DailyOutcome
	var errs []error

	for _, mode := range []histquiz.Mode{histquiz.ModeOrder, histquiz.ModeRange} {
		created, err := g.ensureMode(ctx, mode, date)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", mode, err))
			continue
		}
		if created {
			out.Created = append(out.Created, string(mode))
		} else {
			out.Existed = append(out.Existed, string(mode))
		}
	}
	return out, errors.Join(errs...)
}

func (g *Generator) ensureMode(ctx context.Context, mode histquiz.Mode, date string) (bool, error) {
	if _, err := g.store.PuzzleByDate(ctx, mode, date); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	switch mode {
	case histquiz.ModeOrder:
		return g.generateOrder(ctx, date)
	case histquiz.ModeRange:
		return g.generateRange(ctx, date)
	}
	return false, fmt.Errorf("unknown mode %q", mode)
}

// generateOrder runs the deterministic selector: daily difficulty roll,
// constrained subset, wide fallback on exhaustion.
func (g *Generator) generateOrder(ctx context.Context, date string) (bool, error) {
	pool, err := g.store.UnusedEvents(ctx, histquiz.ModeOrder)
	if err != nil {
		return false, err
	}

	seed := rng.Seed(g.seedSalt+":order", date)
	cfg := selection.DailyConfig(seed)

	events, err := selection.Select(pool, seed, cfg)
	if err != nil {
		var exhausted *selection.ExhaustedError
		if !errors.As(err, &exhausted) {
			return false, err
		}
		g.logger.Warn("selection exhausted, retrying with fallback config",
			"date", date, "attempts", exhausted.Attempts)
		events, err = selection.Select(pool, seed, selection.Fallback)
		if err != nil {
			return false, fmt.Errorf("selection failed even with fallback config: %w", err)
		}
	}

	return g.persist(ctx, histquiz.Puzzle{
		ID:     uuid.NewString(),
		Mode:   histquiz.ModeOrder,
		Date:   date,
		Seed:   seed,
		Events: events,
	})
}

// generateRange runs the judge orchestration over unused year groups and
// falls back to the legacy shuffle so the day always gets a puzzle.
func (g *Generator) generateRange(ctx context.Context, date string) (bool, error) {
	pool, err := g.store.UnusedEvents(ctx, histquiz.ModeRange)
	if err != nil {
		return false, err
	}

	seed := rng.Seed(g.seedSalt+":range", date)
	candidates := yearCandidates(pool, seed)
	if len(candidates) == 0 {
		return false, fmt.Errorf("no year in the pool has %d unused events", compose.MinEvents)
	}

	var year int
	var events []histquiz.Event

	if g.judge != nil {
		res := compose.ComposeWithRetries(ctx, &sliceCandidateSource{cands: candidates}, g.judge, g.judgeMaxAttempts)
		if res.Status == compose.StatusSuccess {
			year, events = res.Year, res.Events
			g.logger.Info("judge approved composition",
				"date", date, "year", year, "quality", res.QualityScore,
				"attempted_years", res.AttemptedYears)
		} else {
			g.logger.Warn("composition failed, using legacy shuffle",
				"date", date, "reason", res.Reason, "attempted_years", res.AttemptedYears)
		}
	}

	if events == nil {
		cand := candidates[0]
		year, events = cand.Year, compose.LegacyShuffle(cand.Events)
	}

	return g.persist(ctx, histquiz.Puzzle{
		ID:         uuid.NewString(),
		Mode:       histquiz.ModeRange,
		Date:       date,
		Seed:       seed,
		Events:     events,
		TargetYear: year,
	})
}

func (g *Generator) persist(ctx context.Context, p histquiz.Puzzle) (bool, error) {
	stored, created, err := g.store.CreatePuzzle(ctx, p)
	if err != nil {
		return false, err
	}
	if !created {
		// Lost a race to a concurrent generator; their puzzle stands.
		return false, nil
	}

	ids := make([]string, len(stored.Events))
	for i, ev := range stored.Events {
		ids[i] = ev.ID
	}
	if err := g.store.MarkEventsUsed(ctx, stored.Mode, stored.ID, ids); err != nil {
		return true, fmt.Errorf("marking events used: %w", err)
	}

	g.logger.Info("puzzle created",
		"mode", stored.Mode, "date", stored.Date, "seq", stored.SeqNumber)
	return true, nil
}

// yearCandidates groups the pool by year, keeps years with enough events,
// and orders them by the date seed so candidate consumption is reproducible.
func yearCandidates(pool []histquiz.Event, seed uint32) []*compose.Candidate {
	byYear := map[int][]histquiz.Event{}
	years := []int{}
	for _, ev := range pool {
		if len(byYear[ev.Year]) == 0 {
			years = append(years, ev.Year)
		}
		byYear[ev.Year] = append(byYear[ev.Year], ev)
	}

	eligible := years[:0]
	for _, y := range years {
		if len(byYear[y]) >= compose.MinEvents {
			eligible = append(eligible, y)
		}
	}
	rng.Shuffle(rng.New(seed), eligible)

	cands := make([]*compose.Candidate, len(eligible))
	for i, y := range eligible {
		cands[i] = &compose.Candidate{Year: y, Events: byYear[y]}
	}
	return cands
}

type sliceCandidateSource struct {
	cands []*compose.Candidate
	pos   int
}

func (s *sliceCandidateSource) Next(_ context.Context) (*compose.Candidate, error) {
	if s.pos >= len(s.cands) {
		return nil, nil
	}
	c := s.cands[s.pos]
	s.pos++
	return c, nil
}
