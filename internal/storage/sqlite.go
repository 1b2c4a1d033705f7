// Package storage keeps the flight log: one row per finished attempt, in
// SQLite. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the flight log.
type Store struct {
	db *sql.DB
}

// Flight is one finished attempt.
type Flight struct {
	ID        int64
	Pilot     string
	Outcome   string // "landed" or "crashed"
	Reason    string // Crash reason, empty for landings
	Score     int
	Fuel      float64 // Fuel left at touchdown
	Speed     float64 // Speed at touchdown
	Ticks     int64
	Seed      int64
	CreatedAt time.Time
}

// Stats aggregates the flight log.
type Stats struct {
	Flights   int
	Landings  int
	Crashes   int
	BestScore int
	AvgScore  float64 // Over landings only
	LastFlown time.Time
	Reasons   map[string]int // Crash count per reason
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions write concurrently; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS flights (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pilot TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			fuel REAL NOT NULL DEFAULT 0,
			speed REAL NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_flights_pilot ON flights(pilot);
		CREATE INDEX IF NOT EXISTS idx_flights_score ON flights(score DESC);
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

// RecordFlight appends an attempt to the log.
// Returns the ID of the inserted record.
func (s *Store) RecordFlight(f Flight) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO flights (pilot, outcome, reason, score, fuel, speed, ticks, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Pilot, f.Outcome, f.Reason, f.Score, f.Fuel, f.Speed, f.Ticks, f.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record flight: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentFlights returns the latest flights, newest first.
// An empty pilot matches everyone.
func (s *Store) RecentFlights(pilot string, limit int) ([]Flight, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, pilot, outcome, reason, score, fuel, speed, ticks, seed, created_at
		 FROM flights
		 WHERE ? = '' OR pilot = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		pilot, pilot, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		var f Flight
		var createdAt any
		if err := rows.Scan(&f.ID, &f.Pilot, &f.Outcome, &f.Reason, &f.Score, &f.Fuel, &f.Speed, &f.Ticks, &f.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		f.CreatedAt = parseTime(createdAt)
		flights = append(flights, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return flights, nil
}

// BestLanding returns the highest-scoring landing, or nil if there is none.
func (s *Store) BestLanding(pilot string) (*Flight, error) {
	var f Flight
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, pilot, outcome, reason, score, fuel, speed, ticks, seed, created_at
		 FROM flights
		 WHERE outcome = 'landed' AND (? = '' OR pilot = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT 1`,
		pilot, pilot,
	).Scan(&f.ID, &f.Pilot, &f.Outcome, &f.Reason, &f.Score, &f.Fuel, &f.Speed, &f.Ticks, &f.Seed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best landing: %w", err)
	}
	f.CreatedAt = parseTime(createdAt)
	return &f, nil
}

// Stats aggregates the log. An empty pilot covers everyone.
func (s *Store) Stats(pilot string) (*Stats, error) {
	stats := &Stats{Reasons: make(map[string]int)}

	var lastFlown any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'landed' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(AVG(CASE WHEN outcome = 'landed' THEN score END), 0),
		        MAX(created_at)
		 FROM flights
		 WHERE ? = '' OR pilot = ?`,
		pilot, pilot,
	).Scan(&stats.Flights, &stats.Landings, &stats.BestScore, &stats.AvgScore, &lastFlown)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get flight stats: %w", err)
	}
	stats.Crashes = stats.Flights - stats.Landings
	stats.LastFlown = parseTime(lastFlown)

	rows, err := s.db.Query(
		`SELECT reason, COUNT(*)
		 FROM flights
		 WHERE outcome = 'crashed' AND (? = '' OR pilot = ?)
		 GROUP BY reason`,
		pilot, pilot,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get crash reasons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats.Reasons[reason] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearFlights deletes the log of one pilot, or everything for an empty pilot.
func (s *Store) ClearFlights(pilot string) error {
	_, err := s.db.Exec("DELETE FROM flights WHERE ? = '' OR pilot = ?", pilot, pilot)
	if err != nil {
		return fmt.Errorf("storage: cannot clear flights: %w", err)
	}
	return nil
}

// parseTime handles datetimes returned as time.Time or as text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse("2006-01-02 15:04:05", string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
