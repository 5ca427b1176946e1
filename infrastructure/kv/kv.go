// Package kv provides the durable key-value port used by the checklist
// store to survive restarts, plus its sqlite-backed implementation.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/uptrace/bun"

	"popcheck/infrastructure/sqlite"
)

// Store is the key-value port injected into stateful components. Keys
// are plain strings; callers namespace them with a fixed prefix and
// reconstruct their state with a prefix scan at startup.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context, keys []string) error
	ListPrefix(ctx context.Context, prefix string) (map[string]string, error)
}

// SQLiteStore persists entries in the kv_entries table.
type SQLiteStore struct {
	db *sqlite.DB
}

func NewSQLiteStore(db *sqlite.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT value FROM kv_entries WHERE key = ?`, key).Scan(ctx, &value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("kv key is required")
	}
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO kv_entries (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET
  value = excluded.value,
  updated_at = CURRENT_TIMESTAMP`, key, value)
		return err
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
		return err
	})
}

// DeleteAll removes the given keys in one write transaction.
func (s *SQLiteStore) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPrefix returns all entries whose key starts with prefix. The
// match uses substr rather than LIKE because checklist prefixes
// contain underscores.
func (s *SQLiteStore) ListPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	type row struct {
		Key   string `bun:"key"`
		Value string `bun:"value"`
	}
	rows := make([]row, 0)
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT key, value FROM kv_entries WHERE substr(key, 1, ?) = ? ORDER BY key ASC`, utf8.RuneCountInString(prefix), prefix).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}
