package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// RunRecord is one finished run
type RunRecord struct {
	Pilot      string
	Score      int
	Kills      int
	Mission    int
	WeaponTier int
	Duration   time.Duration
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Pilot      string  `json:"pilot"`
	Score      int     `json:"score"`
	Kills      int     `json:"kills"`
	Mission    int     `json:"mission"`
	WeaponTier int     `json:"weaponTier"`
	Duration   float64 `json:"duration"` // seconds
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pilot TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		mission INTEGER NOT NULL DEFAULT 1,
		weapon_tier INTEGER NOT NULL DEFAULT 1,
		duration REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_pilot ON runs(pilot);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// RecordRun stores a finished run and returns its ID
func (db *DB) RecordRun(ctx context.Context, r RunRecord) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO runs (pilot, score, kills, mission, weapon_tier, duration)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Pilot, r.Score, r.Kills, r.Mission, r.WeaponTier, r.Duration.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// Leaderboard returns the top runs by score. Ties go to the earlier run.
func (db *DB) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT pilot, score, kills, mission, weapon_tier, duration
		 FROM runs
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	result := make([]LeaderboardEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Pilot, &e.Score, &e.Kills, &e.Mission, &e.WeaponTier, &e.Duration); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// PilotBest returns the pilot's best score, or 0 with no runs
func (db *DB) PilotBest(ctx context.Context, pilot string) (int, error) {
	var best sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		"SELECT MAX(score) FROM runs WHERE pilot = ?", pilot,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("querying best score: %w", err)
	}
	return int(best.Int64), nil
}

// RankForScore returns the leaderboard position a score would take
func (db *DB) RankForScore(ctx context.Context, score int) (int, error) {
	var above int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM runs WHERE score > ?", score,
	).Scan(&above)
	if err != nil {
		return 0, fmt.Errorf("querying rank: %w", err)
	}
	return above + 1, nil
}

// GetSetting returns a stored setting, or "" when unset
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM settings WHERE name = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
