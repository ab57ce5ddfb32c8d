package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GeocodeCache persists reverse-geocoding results across restarts. It
// satisfies cache.Cache[string].
type GeocodeCache struct {
	s   *Storage
	ttl time.Duration
}

// GeocodeCache returns a cache backed by the geocode_cache table. Entries
// older than ttl are treated as missing; a ttl of zero or less never
// expires them.
func (s *Storage) GeocodeCache(ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{s: s, ttl: ttl}
}

func (g *GeocodeCache) Get(ctx context.Context, key string) (string, bool) {
	var name string
	var createdAt int64
	err := g.s.db.QueryRowContext(ctx,
		"SELECT name, created_at FROM geocode_cache WHERE key = ?", key,
	).Scan(&name, &createdAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			g.s.log.Warn("error reading geocode cache", "key", key, "error", err)
		}
		return "", false
	}

	if g.ttl > 0 && time.Since(time.Unix(createdAt, 0)) > g.ttl {
		return "", false
	}
	return name, true
}

func (g *GeocodeCache) Put(ctx context.Context, key, name string) {
	_, err := g.s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO geocode_cache (key, name, created_at) VALUES (?, ?, ?)",
		key, name, time.Now().Unix(),
	)
	if err != nil {
		g.s.log.Warn("error writing geocode cache", "key", key, "error", err)
	}
}

// GeocodeCount returns the number of cached place names.
func (s *Storage) GeocodeCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM geocode_cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting geocode cache entries: %w", err)
	}
	return count, nil
}

// PruneGeocodes deletes cache entries older than maxAge in small batches so
// a long-running server is not blocked on the write lock.
func (s *Storage) PruneGeocodes(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	s.log.Info("Starting cleanup of old geocode cache entries", "cutoff", time.Unix(cutoff, 0))

	deleted := 0
	for {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM geocode_cache WHERE rowid IN (
				SELECT rowid FROM geocode_cache WHERE created_at < ? LIMIT ?
			)`, cutoff, deleteBatchSize)
		if err != nil {
			return deleted, fmt.Errorf("error deleting geocode cache entries: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("error reading deleted rows: %w", err)
		}
		deleted += int(n)
		if n < deleteBatchSize {
			break
		}

		s.log.Debug("Deleted geocode cache entries", "count", deleted)
		time.Sleep(deleteRecordsPause)
	}

	s.log.Info("Completed geocode cache cleanup", "deleted_count", deleted)
	return deleted, nil
}
