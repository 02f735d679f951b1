// Package store persists each user's progress record as a JSON document in
// SQLite, mirroring the key-value document store the surrounding
// application syncs against. Loads are lenient: any subset of fields may be
// missing and malformed values coerce to safe defaults, so a corrupted
// document can never crash the scheduler.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/veritas-study/veritas/internal/domain"
)

// DB wraps the SQL database connection holding progress records.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to
// date. Writes wait out short-lived locks from concurrent readers instead
// of failing with SQLITE_BUSY.
func Open(dsn string) (*DB, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", dsn+sep+"_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadRecord retrieves a user's progress record. A user with no stored
// record yields (nil, nil); the caller starts from a fresh record.
func (db *DB) LoadRecord(userID string) (*domain.Record, error) {
	var doc []byte
	row := db.conn.QueryRow(`
		SELECT document FROM records WHERE user_id = ?
	`, userID)

	if err := row.Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load record for user %s: %w", userID, err)
	}

	return decodeRecord(doc), nil
}

// SaveRecord writes back the value-normalized document for a user,
// stamping UpdatedAt with now.
func (db *DB) SaveRecord(userID string, rec *domain.Record, now time.Time) error {
	rec.UpdatedAt = now
	doc, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record for user %s: %w", userID, err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO records (user_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, userID, doc, now)
	if err != nil {
		return fmt.Errorf("failed to save record for user %s: %w", userID, err)
	}
	return nil
}

// ListRecords returns every stored record keyed by user id, for the
// leaderboard view.
func (db *DB) ListRecords() (map[string]*domain.Record, error) {
	rows, err := db.conn.Query(`
		SELECT user_id, document FROM records
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*domain.Record)
	for rows.Next() {
		var userID string
		var doc []byte
		if err := rows.Scan(&userID, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records[userID] = decodeRecord(doc)
	}
	return records, rows.Err()
}
