// Package storage provides SQLite-based persistence for high scores and
// saved games. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: saved game not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Variant   string // board size and stage count, e.g. "normal/9"
	Score     int
	CreatedAt time.Time
}

// SavedGame is a named game in progress.
type SavedGame struct {
	ID        string
	GameID    string
	Name      string
	Doc       []byte
	UpdatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			variant TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, variant, score DESC);

		CREATE TABLE IF NOT EXISTS saved_games (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			name TEXT NOT NULL UNIQUE,
			doc BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
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

// parseTime handles both driver time values and SQLite's text timestamps.
func parseTime(v any) time.Time {
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

// SaveScore records a new score. Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID, variant string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, variant, score) VALUES (?, ?, ?)",
		gameID, variant, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for a game variant, best first.
// An empty variant matches every variant of the game.
func (s *Store) TopScores(gameID, variant string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, variant, score, created_at
		 FROM scores
		 WHERE game_id = ? AND (? = '' OR variant = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Variant, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// BestScore returns the highest score for a game variant, or 0 if none.
func (s *Store) BestScore(gameID, variant string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ? AND variant = ?",
		gameID, variant,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Variants returns the variants that have scores for a game, sorted.
func (s *Store) Variants(gameID string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT DISTINCT variant FROM scores WHERE game_id = ? ORDER BY variant",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query variants: %w", err)
	}
	defer rows.Close()

	var variants []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// SaveGame stores doc under name, replacing an earlier save with the same
// name. The save keeps its ID across updates.
func (s *Store) SaveGame(gameID, name string, doc []byte) (SavedGame, error) {
	if name == "" {
		return SavedGame{}, fmt.Errorf("storage: save name is empty")
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO saved_games (id, game_id, name, doc, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   game_id = excluded.game_id,
		   doc = excluded.doc,
		   updated_at = CURRENT_TIMESTAMP`,
		id, gameID, name, doc,
	)
	if err != nil {
		return SavedGame{}, fmt.Errorf("storage: cannot save game: %w", err)
	}
	return s.LoadGame(name)
}

// LoadGame returns the save with the given name.
func (s *Store) LoadGame(name string) (SavedGame, error) {
	var g SavedGame
	var updatedAt any
	err := s.db.QueryRow(
		"SELECT id, game_id, name, doc, updated_at FROM saved_games WHERE name = ?",
		name,
	).Scan(&g.ID, &g.GameID, &g.Name, &g.Doc, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedGame{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return SavedGame{}, fmt.Errorf("storage: cannot load game: %w", err)
	}
	g.UpdatedAt = parseTime(updatedAt)
	return g, nil
}

// ListSaves returns every save without its document, newest first.
func (s *Store) ListSaves() ([]SavedGame, error) {
	rows, err := s.db.Query(
		"SELECT id, game_id, name, updated_at FROM saved_games ORDER BY updated_at DESC, name ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list saves: %w", err)
	}
	defer rows.Close()

	var saves []SavedGame
	for rows.Next() {
		var g SavedGame
		var updatedAt any
		if err := rows.Scan(&g.ID, &g.GameID, &g.Name, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.UpdatedAt = parseTime(updatedAt)
		saves = append(saves, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return saves, nil
}

// DeleteGame removes the save with the given name.
func (s *Store) DeleteGame(name string) error {
	res, err := s.db.Exec("DELETE FROM saved_games WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
