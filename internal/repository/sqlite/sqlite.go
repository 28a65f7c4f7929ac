// Package sqlite implements repository.Store on top of SQLite.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code, so no C compiler is needed.
//
// VOLATILE BY DEFAULT:
// The default DSN is ":memory:". An in-memory SQLite database lives inside the
// connection that created it, so New pins the pool to a single connection;
// otherwise every new pooled connection would see its own empty database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/promptlab/internal/repository"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

// New opens the database at dsn and creates the schema.
//
// dsn examples:
//   - ":memory:"           → in-memory database (the default; lost on Close)
//   - "data/promptlab.db"  → file-based database
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must hold
	// exactly one.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. Tags rely on ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. For ":memory:" this discards
// all data.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
//
// prompts.collection_id has no foreign key. The store accepts any value;
// reference checks happen in the service layer.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			created_at  DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating collections table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS prompts (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			content       TEXT NOT NULL,
			description   TEXT,
			collection_id TEXT,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_prompts_collection_id ON prompts(collection_id);
	`)
	if err != nil {
		return fmt.Errorf("creating prompts table: %w", err)
	}

	// Tag order is insertion order, read back via rowid.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			id        TEXT NOT NULL,
			prompt_id TEXT NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
			name      TEXT NOT NULL,
			UNIQUE (prompt_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name);
	`)
	if err != nil {
		return fmt.Errorf("creating tags table: %w", err)
	}

	return nil
}

// Clear deletes every row. Tags go first so the cascade has nothing to do.
func (db *DB) Clear(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning clear: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tags", "prompts", "collections"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite: clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing clear: %w", err)
	}
	return nil
}

// nullString maps an optional field to a nullable column value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
