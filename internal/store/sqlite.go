package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a user has no recorded history.
var ErrNotFound = errors.New("no history for user")

// UserHistory is a user's last looked-up city. History is single-valued:
// every lookup overwrites the previous row.
type UserHistory struct {
	UserID string `db:"id" json:"user_id"`
	City   string `db:"city" json:"city"`
}

// schema is safe to execute any number of times.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id   TEXT PRIMARY KEY,
	city TEXT
);

CREATE TABLE IF NOT EXISTS sity (
	city_name  TEXT PRIMARY KEY,
	call_count BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_users_id  ON users(id);
CREATE INDEX IF NOT EXISTS idx_sity_name ON sity(city_name);
`

// SQLiteStore persists user lookup history and city popularity counters.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the SQLite database at path. WAL
// journaling keeps concurrent readers unblocked by writers; a crash may
// lose the last transaction but never corrupts the file.
func Open(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Init creates the schema. It runs at startup before any request is served
// and is idempotent; running it twice (even concurrently) is harmless.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// RecordUserCity upserts the user's last looked-up city. New users get a
// row, existing users have theirs replaced.
func (s *SQLiteStore) RecordUserCity(ctx context.Context, userID, city string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (id, city) VALUES (?, ?)`,
		userID, city,
	)
	if err != nil {
		return fmt.Errorf("record user city: %w", err)
	}
	return nil
}

// IncrementCityCounter bumps the popularity counter for a city, creating
// the row with count 1 on first sight. City names are opaque: case or
// whitespace differences count as distinct cities.
func (s *SQLiteStore) IncrementCityCounter(ctx context.Context, city string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sity (city_name, call_count) VALUES (?, 1)
		 ON CONFLICT(city_name) DO UPDATE SET call_count = call_count + 1`,
		city,
	)
	if err != nil {
		return fmt.Errorf("increment city counter: %w", err)
	}
	return nil
}

// GetUserHistory returns the user's last looked-up city, or ErrNotFound.
func (s *SQLiteStore) GetUserHistory(ctx context.Context, userID string) (UserHistory, error) {
	var h UserHistory
	err := s.db.GetContext(ctx, &h, `SELECT id, city FROM users WHERE id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return UserHistory{}, ErrNotFound
	}
	if err != nil {
		return UserHistory{}, fmt.Errorf("get user history: %w", err)
	}
	return h, nil
}

// CityCount returns the popularity counter for a city; 0 if never queried.
func (s *SQLiteStore) CityCount(ctx context.Context, city string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT call_count FROM sity WHERE city_name = ?`, city)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("city count: %w", err)
	}
	return count, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
