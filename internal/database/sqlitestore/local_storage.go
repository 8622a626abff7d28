package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"brewratio/internal/cache"
	"brewratio/internal/metrics"

	"github.com/rs/zerolog/log"
)

// LocalStorage implements cache.Store for one visitor using SQLite.
type LocalStorage struct {
	db      *sql.DB
	visitor string
}

// Ensure the store implements the cache interfaces at compile time.
var (
	_ cache.Store    = (*LocalStorage)(nil)
	_ cache.Provider = (*Store)(nil)
)

// LocalStorage returns the store scoped to visitor.
func (s *Store) LocalStorage(visitor string) cache.Store {
	return &LocalStorage{db: s.db, visitor: visitor}
}

// VisitorCount returns the number of visitors with stored values, or -1 on error.
func (s *Store) VisitorCount() int {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT visitor) FROM local_storage`).Scan(&count)
	if err != nil {
		log.Warn().Err(err).Msg("sqlitestore: failed to count visitors")
		return -1
	}
	return count
}

// DeleteVisitor removes every value stored for visitor.
func (s *Store) DeleteVisitor(ctx context.Context, visitor string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE visitor = ?`, visitor)
	return err
}

func (l *LocalStorage) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var value string
	err := l.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE visitor = ? AND key = ?`,
		l.visitor, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("sqlite", "get").Inc()
		log.Warn().Err(err).Str("key", key).Msg("sqlitestore: failed to read cached value")
		return "", false
	}
	return value, true
}

func (l *LocalStorage) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO local_storage (visitor, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor, key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, l.visitor, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("sqlite", "set").Inc()
		log.Warn().Err(err).Str("key", key).Msg("sqlitestore: failed to write cached value")
	}
}
