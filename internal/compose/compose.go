// Package compose orchestrates range-puzzle composition: it feeds candidate
// (year, events) sets to the quality judge, retries across distinct years,
// and reports a terminal success or failure as a value. The loop is
// sequential by design — each attempt depends on the previous one having
// failed, and candidate sources may have side effects per draw.
package compose

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/chronoplay/histquiz/internal/histquiz"
	"github.com/chronoplay/histquiz/internal/judge"
)

// MinEvents is how many candidate events a composition needs before it is
// worth a judge call.
const MinEvents = 6

// Candidate is one proposed composition: a target year and its hint events.
type Candidate struct {
	Year   int
	Events []histquiz.Event
}

// CandidateSource yields candidates one at a time. A nil candidate with nil
// error means the source is exhausted. Each year is yielded at most once;
// the orchestrator never retries a year verbatim.
type CandidateSource interface {
	Next(ctx context.Context) (*Candidate, error)
}

// Status is the terminal outcome of one orchestration run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the orchestrator's terminal state, returned as a value so the
// exhaustion and fallback paths stay independently testable.
type Result struct {
	Status         Status
	Year           int
	Events         []histquiz.Event // judge's recommended order, verbatim
	QualityScore   float64
	Rationale      string
	AttemptedYears []int
	Reason         string
	LastVerdict    *judge.Verdict // retained for diagnostics
}

// ComposeWithRetries runs the attempt state machine: draw a candidate, ask
// the judge, accept on approval or move to the next distinct year on
// rejection. A judge error counts as a rejection for that attempt, not a
// hard failure. Failure reasons distinguish an exhausted source from an
// exhausted attempt budget.
func ComposeWithRetries(ctx context.Context, src CandidateSource, j judge.Judge, maxAttempts int) Result {
	res := Result{Status: StatusFailed}

	attempts := 0
	for attempts < maxAttempts {
		cand, err := src.Next(ctx)
		if err != nil {
			res.Reason = fmt.Sprintf("candidate source failed: %v", err)
			return res
		}
		if cand == nil {
			if attempts == 0 {
				res.Reason = "no more candidates"
			} else {
				res.Reason = fmt.Sprintf("%d attempts failed, then no more candidates", attempts)
			}
			return res
		}

		// Too few events is free: no judge call, no budget spent, but the
		// year is still burned so it is never retried verbatim.
		if len(cand.Events) < MinEvents {
			res.AttemptedYears = append(res.AttemptedYears, cand.Year)
			continue
		}

		attempts++
		res.AttemptedYears = append(res.AttemptedYears, cand.Year)

		verdict, err := j.Judge(ctx, cand.Year, cand.Events[:MinEvents])
		if err != nil {
			res.Reason = err.Error()
			continue
		}
		res.LastVerdict = &verdict

		if !verdict.Approved {
			res.Reason = rejectionReason(verdict)
			continue
		}

		ordered, err := applyOrdering(cand.Events[:MinEvents], verdict.Ordering.Recommended)
		if err != nil {
			res.Reason = err.Error()
			continue
		}

		return Result{
			Status:         StatusSuccess,
			Year:           cand.Year,
			Events:         ordered,
			QualityScore:   verdict.QualityScore,
			Rationale:      verdict.Ordering.Rationale,
			AttemptedYears: res.AttemptedYears,
			LastVerdict:    &verdict,
		}
	}

	res.Reason = fmt.Sprintf("%d attempts failed", attempts)
	return res
}

func rejectionReason(v judge.Verdict) string {
	if len(v.Issues) == 0 {
		return "below quality threshold"
	}
	return strings.Join(v.Issues, "; ")
}

// applyOrdering reorders events to the judge's recommendation. The
// orchestrator never re-sorts an approved set itself.
func applyOrdering(events []histquiz.Event, recommended []string) ([]histquiz.Event, error) {
	byID := make(map[string]histquiz.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	if len(recommended) != len(events) {
		return nil, fmt.Errorf("judge ordering has %d entries for %d events", len(recommended), len(events))
	}
	out := make([]histquiz.Event, 0, len(events))
	for _, id := range recommended {
		ev, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("judge ordering references unknown event %q", id)
		}
		delete(byID, id)
		out = append(out, ev)
	}
	return out, nil
}

// LegacyShuffle is the never-fail fallback when the judge path is disabled
// or exhausted: Fisher–Yates over a copy, truncated to MinEvents.
// Intentionally not quality-checked and intentionally non-deterministic.
func LegacyShuffle(events []histquiz.Event) []histquiz.Event {
	out := make([]histquiz.Event, len(events))
	copy(out, events)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if len(out) > MinEvents {
		out = out[:MinEvents]
	}
	return out
}
