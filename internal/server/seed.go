package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

// demoPool is a starter event pool so a fresh install can generate puzzles
// immediately. Range mode needs year groups of 6+; order mode draws across
// the whole span.
var demoPool = []struct {
	Year int
	Text string
}{
	{1969, "Apollo 11 lands the first crew on the Moon"},
	{1969, "The Woodstock festival draws 400,000 to a dairy farm"},
	{1969, "ARPANET transmits its first host-to-host message"},
	{1969, "The Boeing 747 makes its maiden flight"},
	{1969, "The Concorde prototype flies for the first time"},
	{1969, "Sesame Street premieres on American television"},
	{1969, "The Stonewall riots begin in Greenwich Village"},
	{1945, "The United Nations charter is signed in San Francisco"},
	{1945, "The Trinity test detonates the first nuclear device"},
	{1945, "Germany surrenders, ending the war in Europe"},
	{1945, "The Arab League is founded in Cairo"},
	{1945, "Korea is divided along the 38th parallel"},
	{1945, "The microwave oven is patented"},
	{1492, "Columbus reaches the Caribbean"},
	{1517, "Luther posts the Ninety-five Theses"},
	{1582, "The Gregorian calendar is introduced"},
	{1687, "Newton publishes the Principia"},
	{1776, "The American Declaration of Independence is adopted"},
	{1789, "The French Revolution begins with the storming of the Bastille"},
	{1804, "Napoleon crowns himself Emperor of the French"},
	{1833, "Slavery is abolished across the British Empire"},
	{1859, "Darwin publishes On the Origin of Species"},
	{1876, "Bell is granted a patent for the telephone"},
	{1903, "The Wright brothers achieve powered flight"},
	{1914, "The Panama Canal opens to shipping"},
	{1928, "Fleming discovers penicillin"},
	{1947, "India gains independence from Britain"},
	{1953, "Watson and Crick describe the structure of DNA"},
	{1961, "Gagarin becomes the first human in space"},
	{1989, "The Berlin Wall falls"},
	{1990, "The Hubble Space Telescope is launched"},
	{2004, "The Cassini probe enters orbit around Saturn"},
}

// SeedDemo fills an empty events table with the starter pool and creates
// the demo admin if none exists. Idempotent.
func SeedDemo(ctx context.Context, logger *slog.Logger, db *sql.DB, store Store, adminEmail, adminPasswordHash string) error {
	n, err := store.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("counting events: %w", err)
	}
	if n == 0 {
		events := make([]histquiz.Event, len(demoPool))
		for i, d := range demoPool {
			events[i] = histquiz.Event{ID: uuid.NewString(), Year: d.Year, Text: d.Text}
		}
		if err := store.InsertEvents(ctx, events); err != nil {
			return fmt.Errorf("seeding events: %w", err)
		}
		logger.Info("seeded demo event pool", "events", len(events))
	}

	var admins int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&admins); err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if admins == 0 && adminEmail != "" {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)
		`, uuid.NewString(), adminEmail, adminPasswordHash); err != nil {
			return fmt.Errorf("seeding admin: %w", err)
		}
		logger.Info("seeded demo admin", "email", adminEmail)
	}
	return nil
}
