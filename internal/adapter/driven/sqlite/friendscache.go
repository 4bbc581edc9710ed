package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/ibank/internal/domain/model"
	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FriendsCache = (*FriendsCache)(nil)

// FriendsCache is the SQLite implementation of the FriendsCache port interface.
// It holds exactly one snapshot: each Save replaces the previous one.
type FriendsCache struct {
	db *DB
}

// NewFriendsCache creates a new FriendsCache backed by the given DB.
func NewFriendsCache(db *DB) *FriendsCache {
	return &FriendsCache{db: db}
}

// Save atomically replaces the cached snapshot with friends, preserving order.
func (c *FriendsCache) Save(ctx context.Context, friends []model.Friend) error {
	tx, err := c.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save friends: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM friends_cache`); err != nil {
		return fmt.Errorf("clear friends cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO friends_cache (position, name, phone) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare friend insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range friends {
		if _, err := stmt.ExecContext(ctx, i, f.Name, f.Phone); err != nil {
			return fmt.Errorf("insert friend %d: %w", i, err)
		}
	}

	const upsertMeta = `
		INSERT INTO friends_cache_meta (id, count, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET count = excluded.count, saved_at = excluded.saved_at`
	if _, err := tx.ExecContext(ctx, upsertMeta, len(friends), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("update friends cache meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save friends: %w", err)
	}
	return nil
}

// Load returns the most recently saved snapshot in its original order.
// Returns driven.ErrCacheEmpty if nothing has ever been saved.
func (c *FriendsCache) Load(ctx context.Context) ([]model.Friend, error) {
	var count int
	err := c.db.Reader.QueryRowContext(ctx, `SELECT count FROM friends_cache_meta WHERE id = 1`).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrCacheEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read friends cache meta: %w", err)
	}

	rows, err := c.db.Reader.QueryContext(ctx, `SELECT name, phone FROM friends_cache ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}
	defer rows.Close()

	friends := make([]model.Friend, 0, count)
	for rows.Next() {
		var f model.Friend
		if err := rows.Scan(&f.Name, &f.Phone); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friends: %w", err)
	}
	return friends, nil
}

// SavedAt reports when the current snapshot was written.
// Returns driven.ErrCacheEmpty if nothing has ever been saved.
func (c *FriendsCache) SavedAt(ctx context.Context) (time.Time, error) {
	var savedAt string
	err := c.db.Reader.QueryRowContext(ctx, `SELECT saved_at FROM friends_cache_meta WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, driven.ErrCacheEmpty
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read friends cache saved_at: %w", err)
	}

	t, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse saved_at %q: %w", savedAt, err)
	}
	return t, nil
}
