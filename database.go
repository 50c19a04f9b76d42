package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player account
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// RunRow represents one finished round
type RunRow struct {
	ID          int64
	PlayerID    int64 // 0 = guest run
	Score       int
	Duration    float64 // seconds
	MobsSpawned int
	CreatedAt   time.Time
}

// ScoreboardEntry is one row of the best-runs list
type ScoreboardEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    int     `json:"score"`
	Duration float64 `json:"duration"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
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
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER REFERENCES players(id),
		score INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		mobs_spawned INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		room_id TEXT,
		data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player_id);
	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreatePlayer creates a new account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPlayerByUsername returns an account by username, nil if absent
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSetting returns a settings value, empty string if absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting upserts a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// RecordRun persists a finished round. playerID 0 stores a guest run.
func (db *DB) RecordRun(playerID int64, score int, duration float64, mobsSpawned int) error {
	pid := sql.NullInt64{Int64: playerID, Valid: playerID > 0}
	_, err := db.conn.Exec(
		"INSERT INTO runs (player_id, score, duration, mobs_spawned) VALUES (?, ?, ?, ?)",
		pid, score, duration, mobsSpawned,
	)
	return err
}

// Scoreboard returns the best runs, highest score first. Guest runs show
// up without a username.
func (db *DB) Scoreboard(limit int) ([]ScoreboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT COALESCE(p.username, 'guest'), r.score, r.duration
		FROM runs r LEFT JOIN players p ON p.id = r.player_id
		ORDER BY r.score DESC, r.duration ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ScoreboardEntry
	rank := 1
	for rows.Next() {
		var e ScoreboardEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.Duration); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// BestRun returns a player's highest-scoring run, nil if none
func (db *DB) BestRun(playerID int64) (*RunRow, error) {
	row := db.conn.QueryRow(`
		SELECT id, COALESCE(player_id, 0), score, duration, mobs_spawned, created_at
		FROM runs WHERE player_id = ?
		ORDER BY score DESC LIMIT 1`,
		playerID,
	)
	r := &RunRow{}
	err := row.Scan(&r.ID, &r.PlayerID, &r.Score, &r.Duration, &r.MobsSpawned, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}
