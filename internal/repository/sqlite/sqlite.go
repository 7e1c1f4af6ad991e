// Package sqlite implements repository.ProfileRepository on an in-memory
// SQLite database.
//
// The database is always opened as ":memory:", so this backend keeps the same
// lifetime as the map-based store: profiles vanish when the process exits.
// What it adds is that the uniqueness and atomicity rules are enforced by
// SQLite itself (a UNIQUE username column and single-statement writes)
// rather than by a Go mutex.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no C compiler, no CGo, works
// everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens a fresh in-memory database and creates the schema.
//
// ONE CONNECTION ONLY:
// Every new connection to ":memory:" gets its own empty database. The pool is
// capped at one connection so every query sees the same data; SQLite
// serializes statements on it, which is what makes Insert and SetPicture
// atomic with respect to each other.
func New() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	// Keep the single connection forever; closing it would drop the database.
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection, discarding every stored profile.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	// bio is nullable: NULL means "no bio", '' means an empty one.
	// profile_picture is '' until the first accepted upload.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			username        TEXT PRIMARY KEY,
			email           TEXT NOT NULL,
			bio             TEXT,
			profile_picture TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}
	return nil
}
