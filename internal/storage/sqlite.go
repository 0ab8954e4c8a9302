// Package storage provides SQLite-based persistence for the ranking table.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPlayerName is stored when a rank is submitted without a name.
const DefaultPlayerName = "player"

// MaxNameLength bounds stored player names, in runes.
const MaxNameLength = 16

// Store manages the SQLite database connection for rank persistence.
type Store struct {
	db *sql.DB
}

// Rank is a single finished session in the ranking table.
type Rank struct {
	ID        int64
	Name      string
	Score     int
	Round     int
	Lines     int
	CreatedAt time.Time
}

// Stats contains aggregated statistics over every stored rank.
type Stats struct {
	Games      int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestRound  int
	TotalLines int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS ranks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			round INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_ranks_top ON ranks(score DESC, id ASC);
		CREATE INDEX IF NOT EXISTS idx_ranks_name ON ranks(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// PutRank records a finished session. Names are trimmed and shortened to
// MaxNameLength; an empty name is stored as DefaultPlayerName.
// Returns the ID of the inserted record.
func (s *Store) PutRank(name string, score, round, lines int) (int64, error) {
	if score < 0 {
		return 0, fmt.Errorf("storage: negative score %d", score)
	}

	result, err := s.db.Exec(
		"INSERT INTO ranks (name, score, round, lines) VALUES (?, ?, ?, ?)",
		normalizeName(name), score, round, lines,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save rank: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Ranks retrieves the top limit ranks, best score first. Ties keep
// submission order.
func (s *Store) Ranks(limit int) ([]Rank, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, name, score, round, lines, created_at
		 FROM ranks
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ranks: %w", err)
	}
	defer rows.Close()

	var entries []Rank
	for rows.Next() {
		var r Rank
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Name, &r.Score, &r.Round, &r.Lines, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest stored score, or 0 if no ranks exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM ranks").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// PlayerBest returns the best score of one player, or 0 if they never played.
func (s *Store) PlayerBest(name string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM ranks WHERE name = ?",
		normalizeName(name),
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query player best: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Position returns the 1-based table position a score would take if it
// were submitted now.
func (s *Store) Position(score int) (int, error) {
	var better int
	err := s.db.QueryRow("SELECT COUNT(*) FROM ranks WHERE score >= ?", score).Scan(&better)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query position: %w", err)
	}
	return better + 1, nil
}

// ClearRanks deletes every stored rank.
func (s *Store) ClearRanks() error {
	if _, err := s.db.Exec("DELETE FROM ranks"); err != nil {
		return fmt.Errorf("storage: cannot clear ranks: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics over every stored rank.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(MAX(round), 0), COALESCE(SUM(lines), 0)
		 FROM ranks`,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.BestRound, &stats.TotalLines)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM ranks ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayerName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}
	return name
}
