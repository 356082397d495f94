// Package sqlkv implements storage.KV on top of the kv table created by the
// embedded migrations. SQLite and PostgreSQL share it; placeholders are
// rebound for whichever driver the connection was opened with.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/murmur/internal/storage"
)

// Record describes one stored key without its value.
type Record struct {
	Key       string `db:"key"`
	Revision  int64  `db:"revision"`
	Size      int64  `db:"size"`
	UpdatedAt string `db:"updated_at"`
}

type Table struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Table {
	return &Table{db: db}
}

func (t *Table) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := t.db.GetContext(ctx, &value, t.db.Rebind("SELECT value FROM kv WHERE key = ?"), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

// Set upserts value and bumps the key's revision.
func (t *Table) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	query := t.db.Rebind(`
		INSERT INTO kv (key, value, updated_at, revision)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = kv.revision + 1
	`)
	var updatedAt interface{} = time.Now().UTC().Format(time.RFC3339Nano)
	if t.db.DriverName() == "postgres" {
		updatedAt = time.Now().UTC()
	}
	if _, err := t.db.ExecContext(ctx, query, key, value, updatedAt); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (t *Table) Remove(ctx context.Context, key string) error {
	if _, err := t.db.ExecContext(ctx, t.db.Rebind("DELETE FROM kv WHERE key = ?"), key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

func (t *Table) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := t.db.SelectContext(ctx, &keys, "SELECT key FROM kv ORDER BY key"); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Records lists key metadata, used by doctor to report blob sizes.
func (t *Table) Records(ctx context.Context) ([]Record, error) {
	var records []Record
	query := "SELECT key, revision, length(value) AS size, CAST(updated_at AS TEXT) AS updated_at FROM kv ORDER BY key"
	if err := t.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}
