// Package judge wraps the external puzzle-quality judge. The composition
// orchestrator depends only on the Judge interface; the OpenAI-backed
// implementation lives alongside it so transport concerns stay out of the
// retry logic.
package judge

import (
	"context"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

// Ordering is the judge's recommended hint ordering with its rationale.
type Ordering struct {
	Recommended []string `json:"recommended"`
	Rationale   string   `json:"rationale"`
}

// Verdict is the judge's decision on one proposed composition.
type Verdict struct {
	Approved     bool     `json:"approved"`
	QualityScore float64  `json:"qualityScore"`
	Ordering     Ordering `json:"ordering"`
	Issues       []string `json:"issues"`
}

// Judge decides whether a (year, events) composition makes a fair puzzle.
// Implementations may return an error on transport or service failure; the
// caller treats that as a rejection of the attempt, not a hard failure.
type Judge interface {
	Judge(ctx context.Context, year int, events []histquiz.Event) (Verdict, error)
}
