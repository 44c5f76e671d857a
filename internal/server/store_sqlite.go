package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreatePlayer(ctx context.Context) (string, string, error) {
	playerID := uuid.NewString()
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, session_id) VALUES (?, ?)
	`, playerID, token)
	return playerID, token, err
}

func (s *SQLiteStore) PlayerFromToken(ctx context.Context, token string) (string, error) {
	var playerID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM players WHERE session_id = ?
	`, token).Scan(&playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errNoSession
	}
	return playerID, err
}

func usedColumn(mode histquiz.Mode) string {
	if mode == histquiz.ModeRange {
		return "used_in_range"
	}
	return "used_in_order"
}

func (s *SQLiteStore) UnusedEvents(ctx context.Context, mode histquiz.Mode) ([]histquiz.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, year, text FROM events
		WHERE `+usedColumn(mode)+` IS NULL
		ORDER BY year, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []histquiz.Event
	for rows.Next() {
		var ev histquiz.Event
		if err := rows.Scan(&ev.ID, &ev.Year, &ev.Text); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) MarkEventsUsed(ctx context.Context, mode histquiz.Mode, puzzleID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	args := make([]any, 0, len(eventIDs)+1)
	args = append(args, puzzleID)
	for _, id := range eventIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(eventIDs)), ",")
	_, err := s.db.ExecContext(ctx, `
		UPDATE events SET `+usedColumn(mode)+` = ?
		WHERE id IN (`+placeholders+`)
	`, args...)
	return err
}

func (s *SQLiteStore) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) InsertEvents(ctx context.Context, events []histquiz.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, year, text) VALUES (?, ?, ?)
		`, ev.ID, ev.Year, ev.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreatePuzzle(ctx context.Context, p histquiz.Puzzle) (histquiz.Puzzle, bool, error) {
	eventsJSON, err := json.Marshal(storedEvents(p.Events))
	if err != nil {
		return histquiz.Puzzle{}, false, err
	}

	// Single statement: claim seq_number = max+1 and insert only if no
	// puzzle holds this (mode, date) yet. Losing a concurrent race either
	// inserts zero rows or trips the UNIQUE(mode, date) constraint; both
	// mean someone else created today's puzzle, which is a success outcome.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO puzzles (id, mode, seq_number, date, seed, events, target_year)
		SELECT ?, ?, COALESCE((SELECT MAX(seq_number) FROM puzzles WHERE mode = ?), 0) + 1, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM puzzles WHERE mode = ? AND date = ?)
	`, p.ID, p.Mode, p.Mode, p.Date, p.Seed, string(eventsJSON), nullableYear(p.TargetYear), p.Mode, p.Date)
	created := false
	if err == nil {
		n, _ := res.RowsAffected()
		created = n > 0
	} else if !isUniqueViolation(err) {
		return histquiz.Puzzle{}, false, err
	}

	stored, err := s.PuzzleByDate(ctx, p.Mode, p.Date)
	return stored, created, err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}

func (s *SQLiteStore) PuzzleByDate(ctx context.Context, mode histquiz.Mode, date string) (histquiz.Puzzle, error) {
	var (
		p          histquiz.Puzzle
		eventsJSON string
		target     sql.NullInt64
		createdAt  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, mode, seq_number, date, seed, events, target_year, created_at
		FROM puzzles WHERE mode = ? AND date = ?
	`, mode, date).Scan(&p.ID, &p.Mode, &p.SeqNumber, &p.Date, &p.Seed, &eventsJSON, &target, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	if target.Valid {
		p.TargetYear = int(target.Int64)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	var stored []storedEvent
	if err := json.Unmarshal([]byte(eventsJSON), &stored); err != nil {
		return p, fmt.Errorf("decoding puzzle events: %w", err)
	}
	p.Events = make([]histquiz.Event, len(stored))
	for i, ev := range stored {
		p.Events[i] = histquiz.Event{ID: ev.ID, Year: ev.Year, Text: ev.Text}
	}
	return p, nil
}

func (s *SQLiteStore) ListPuzzles(ctx context.Context) ([]PuzzleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.mode, p.seq_number, p.date,
			(SELECT COUNT(*) FROM plays WHERE puzzle_id = p.id),
			p.created_at
		FROM puzzles p
		ORDER BY p.date DESC, p.mode
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	puzzles := []PuzzleSummary{}
	for rows.Next() {
		var ps PuzzleSummary
		if err := rows.Scan(&ps.ID, &ps.Mode, &ps.SeqNumber, &ps.Date, &ps.PlayCount, &ps.CreatedAt); err != nil {
			return nil, err
		}
		puzzles = append(puzzles, ps)
	}
	return puzzles, rows.Err()
}

func (s *SQLiteStore) GetPlay(ctx context.Context, playerID, puzzleID string) (*histquiz.Play, error) {
	var (
		play        histquiz.Play
		rangeJSON   string
		orderJSON   string
		completedAt sql.NullString
		updatedAt   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, player_id, puzzle_id, range_attempts, order_attempts,
			hints_used, score, completed_at, updated_at
		FROM plays WHERE player_id = ? AND puzzle_id = ?
	`, playerID, puzzleID).Scan(
		&play.ID, &play.PlayerID, &play.PuzzleID, &rangeJSON, &orderJSON,
		&play.HintsUsed, &play.Score, &completedAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rangeJSON), &play.RangeAttempts); err != nil {
		return nil, fmt.Errorf("decoding range attempts: %w", err)
	}
	if err := json.Unmarshal([]byte(orderJSON), &play.OrderAttempts); err != nil {
		return nil, fmt.Errorf("decoding order attempts: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
		play.CompletedAt = &t
	}
	play.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &play, nil
}

func (s *SQLiteStore) UpsertPlay(ctx context.Context, play histquiz.Play) error {
	rangeJSON, err := json.Marshal(attemptsOrEmpty(play.RangeAttempts))
	if err != nil {
		return err
	}
	orderJSON, err := json.Marshal(orderAttemptsOrEmpty(play.OrderAttempts))
	if err != nil {
		return err
	}
	var completedAt any
	if play.CompletedAt != nil {
		completedAt = play.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	// completed_at is write-once: COALESCE keeps the first value a play was
	// sealed with even if a later upsert carries one.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plays (id, player_id, puzzle_id, range_attempts, order_attempts,
			hints_used, score, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (player_id, puzzle_id) DO UPDATE SET
			range_attempts = excluded.range_attempts,
			order_attempts = excluded.order_attempts,
			hints_used = excluded.hints_used,
			score = excluded.score,
			completed_at = COALESCE(plays.completed_at, excluded.completed_at),
			updated_at = excluded.updated_at
	`, play.ID, play.PlayerID, play.PuzzleID, string(rangeJSON), string(orderJSON),
		play.HintsUsed, play.Score, completedAt)
	return err
}

func attemptsOrEmpty(a []histquiz.RangeAttempt) []histquiz.RangeAttempt {
	if a == nil {
		return []histquiz.RangeAttempt{}
	}
	return a
}

func orderAttemptsOrEmpty(a []histquiz.OrderAttempt) []histquiz.OrderAttempt {
	if a == nil {
		return []histquiz.OrderAttempt{}
	}
	return a
}

// storedEvent is the JSON shape of puzzle truth rows.
type storedEvent struct {
	ID   string `json:"id"`
	Year int    `json:"year"`
	Text string `json:"text"`
}

func storedEvents(events []histquiz.Event) []storedEvent {
	out := make([]storedEvent, len(events))
	for i, ev := range events {
		out[i] = storedEvent{ID: ev.ID, Year: ev.Year, Text: ev.Text}
	}
	return out
}
