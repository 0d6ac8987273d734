// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/bikeshare/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for exploration history.
type Store struct {
	db *sql.DB
}

// CityTotal aggregates recorded explorations for one city.
type CityTotal struct {
	City          string
	Explorations  int
	Trips         int
	TotalDuration float64
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS explorations (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			city TEXT NOT NULL,
			path TEXT NOT NULL,
			month TEXT NOT NULL,
			weekday TEXT NOT NULL,
			trips INTEGER NOT NULL,
			total_duration REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_explorations_started_at ON explorations(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_explorations_city ON explorations(city);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertExploration records one loaded exploration and returns its ID. A
// random ID is assigned when e.ID is empty.
func (s *Store) InsertExploration(ctx context.Context, e model.Exploration) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO explorations (id, started_at, city, path, month, weekday, trips, total_duration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.StartedAt.UTC().Format(timeLayout),
		e.City,
		e.Path,
		e.Month,
		e.Weekday,
		e.Trips,
		e.TotalDuration,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert exploration: %w", err)
	}
	return e.ID, nil
}

// ListExplorations returns the most recent explorations, newest first. last
// <= 0 returns all of them.
func (s *Store) ListExplorations(ctx context.Context, last int) ([]model.Exploration, error) {
	if last <= 0 {
		last = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, city, path, month, weekday, trips, total_duration
		FROM explorations
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, last)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Exploration
	for rows.Next() {
		var e model.Exploration
		var startedAt string
		if err := rows.Scan(&e.ID, &startedAt, &e.City, &e.Path, &e.Month, &e.Weekday, &e.Trips, &e.TotalDuration); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, err
		}
		e.StartedAt = parsed
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CityTotals aggregates all recorded explorations per city, ordered by city.
func (s *Store) CityTotals(ctx context.Context) ([]CityTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT city, COUNT(*), SUM(trips), SUM(total_duration)
		FROM explorations
		GROUP BY city
		ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []CityTotal
	for rows.Next() {
		var total CityTotal
		if err := rows.Scan(&total.City, &total.Explorations, &total.Trips, &total.TotalDuration); err != nil {
			return nil, err
		}
		result = append(result, total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
