// Package sqlite stores the note slot in a single-table SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/introspection"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/notes/pkg/core"
)

//go:embed schema.sql
var schemaSQL string

// KeyValue implements core.KeyValue on a SQLite table.
type KeyValue struct {
	db   *sql.DB
	path string
}

// Open creates or opens a SQLite database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*KeyValue, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps ":memory:" stable.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	kv := &KeyValue{db: db, path: path}
	if err := kv.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

// Initialize applies pragmas and the schema. It is idempotent.
func (k *KeyValue) Initialize(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := k.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := k.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (k *KeyValue) Close() error {
	if k.db == nil {
		return nil
	}
	return k.db.Close()
}

// Get reads the value row for key. A missing row is reported as not found.
func (k *KeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value row for key and stamps updated_at.
func (k *KeyValue) Set(ctx context.Context, key string, value []byte) error {
	_, err := k.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// KeyValueState exposes internal state for observability.
type KeyValueState struct {
	Path string `json:"path"`
	Keys int    `json:"keys"`
}

// State implements introspection.Introspectable.
func (k *KeyValue) State() any {
	var n int
	_ = k.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n)
	return KeyValueState{Path: k.path, Keys: n}
}

// ComponentType implements introspection.Component.
func (k *KeyValue) ComponentType() string {
	return "sqlite"
}

var _ core.KeyValue = (*KeyValue)(nil)
var _ core.Initializer = (*KeyValue)(nil)
var _ introspection.Introspectable = (*KeyValue)(nil)
var _ introspection.Component = (*KeyValue)(nil)
