package uploads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTempFileTTL             = time.Hour
	DefaultTempFileCleanupInterval = 10 * time.Minute
)

// StartCleaner periodically deletes uploads older than ttl. Requests release
// their own files; the cleaner only collects what a crashed process left behind.
func (s *Store) StartCleaner(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultTempFileCleanupInterval
	}
	if ttl <= 0 {
		ttl = DefaultTempFileTTL
	}
	go s.cleanupLoop(ctx, interval, ttl)
}

func (s *Store) cleanupLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.cleanupExpired(time.Now().Add(-ttl))
			if err != nil {
				s.logger.Error("cleanup uploads failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("stale uploads removed", zap.Int("count", removed))
			}
		}
	}
}

// cleanupExpired removes regular files last modified before cutoff.
func (s *Store) cleanupExpired(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := s.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("remove stale upload failed", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
