package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS confirmed_bookings (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	phone        TEXT NOT NULL,
	confirmed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_confirmed_bookings_confirmed_at
	ON confirmed_bookings (confirmed_at);
`

// Entry is one confirmed booking.
type Entry struct {
	ID          int64
	Name        string
	Phone       string
	ConfirmedAt time.Time
}

// Log records confirmed bookings in a local SQLite database so they survive
// restarts of the in-memory OTP flow.
type Log struct {
	db *sql.DB
}

// OpenLog opens (and if needed initializes) the booking log at path.
func OpenLog(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening booking log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing booking log: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends a confirmed booking.
func (l *Log) Record(ctx context.Context, name, phone string, confirmedAt time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO confirmed_bookings (name, phone, confirmed_at) VALUES (?, ?, ?)`,
		name, phone, confirmedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording booking: %w", err)
	}
	return nil
}

// Recent returns the latest confirmed bookings, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, phone, confirmed_at
		 FROM confirmed_bookings ORDER BY confirmed_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Phone, &e.ConfirmedAt); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
