package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// PuzzleStats are the denormalized aggregate counters per puzzle, kept
// outside the puzzle row so the row itself stays immutable.
type PuzzleStats struct {
	Plays       int64 `json:"plays"`
	Completions int64 `json:"completions"`
	ScoreSum    int64 `json:"scoreSum"`
}

// Stats records per-puzzle aggregate counters. Handlers call it only after
// a submission has passed validation and been persisted.
type Stats interface {
	// PlayStarted bumps the play counter once per new play.
	PlayStarted(ctx context.Context, puzzleID string)
	// Completed bumps completion counters for a sealed play.
	Completed(ctx context.Context, puzzleID string, score int)
	// Get reads the counters for one puzzle. Missing fields read as zero.
	Get(ctx context.Context, puzzleID string) (PuzzleStats, error)
}

// RedisStats keeps the counters in redis hashes. Counter updates are
// best-effort: failures are logged and never surface into the submission
// path, since a validated play must not be lost to a cache hiccup.
type RedisStats struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewStats(rdb *redis.Client, logger *slog.Logger) *RedisStats {
	return &RedisStats{rdb: rdb, logger: logger}
}

func statsKey(puzzleID string) string {
	return "histquiz:stats:" + puzzleID
}

func (s *RedisStats) PlayStarted(ctx context.Context, puzzleID string) {
	s.incr(ctx, puzzleID, "plays", 1)
}

func (s *RedisStats) Completed(ctx context.Context, puzzleID string, score int) {
	s.incr(ctx, puzzleID, "completions", 1)
	s.incr(ctx, puzzleID, "score_sum", int64(score))
}

func (s *RedisStats) incr(ctx context.Context, puzzleID, field string, by int64) {
	if err := s.rdb.HIncrBy(ctx, statsKey(puzzleID), field, by).Err(); err != nil {
		s.logger.Warn("stats update failed", "puzzle_id", puzzleID, "field", field, "error", err)
	}
}

func (s *RedisStats) Get(ctx context.Context, puzzleID string) (PuzzleStats, error) {
	vals, err := s.rdb.HGetAll(ctx, statsKey(puzzleID)).Result()
	if err != nil {
		return PuzzleStats{}, fmt.Errorf("reading stats: %w", err)
	}
	var st PuzzleStats
	fmt.Sscan(vals["plays"], &st.Plays)
	fmt.Sscan(vals["completions"], &st.Completions)
	fmt.Sscan(vals["score_sum"], &st.ScoreSum)
	return st, nil
}
