package backup

import (
	"fmt"
	"time"
)

// CleanupOptions configures backup retention
type CleanupOptions struct {
	// MaxBackups limits the number of backups kept per source file (0 = unlimited)
	MaxBackups int

	// MaxAge is the maximum age of backups to keep (0 = unlimited)
	MaxAge time.Duration

	// KeepAtLeastOne ensures the newest backup of each source file survives
	KeepAtLeastOne bool

	// DryRun reports what would be deleted without deleting
	DryRun bool
}

// DefaultCleanupOptions returns the retention used after each manifest save
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		MaxBackups:     5,
		MaxAge:         30 * 24 * time.Hour,
		KeepAtLeastOne: true,
	}
}

// Cleanup removes old backups and returns the deleted IDs.
func (s *Store) Cleanup(opts CleanupOptions) ([]string, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]Metadata)
	for _, b := range index.List() {
		groups[b.SourcePath] = append(groups[b.SourcePath], b)
	}

	var toDelete []string
	now := s.now()
	for _, backups := range groups {
		var expired []string
		for i, b := range backups {
			tooOld := opts.MaxAge > 0 && now.Sub(b.CreatedAt) > opts.MaxAge
			tooMany := opts.MaxBackups > 0 && i >= opts.MaxBackups
			if tooOld || tooMany {
				expired = append(expired, b.ID)
			}
		}
		// backups is newest first, so the newest is expired[0] only when all are expired
		if opts.KeepAtLeastOne && len(expired) == len(backups) && len(expired) > 0 {
			expired = expired[1:]
		}
		toDelete = append(toDelete, expired...)
	}

	var deleted []string
	for _, id := range toDelete {
		if !opts.DryRun {
			if err := s.Delete(id); err != nil {
				return deleted, fmt.Errorf("failed to delete backup %q: %w", id, err)
			}
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// Stats summarizes a Store
type Stats struct {
	TotalBackups int
	TotalSize    int64
	ByKind       map[string]int
	OldestBackup time.Time
	NewestBackup time.Time
}

// Stats returns statistics about the stored backups
func (s *Store) Stats() (*Stats, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByKind: make(map[string]int)}
	for _, b := range index.Backups {
		stats.TotalBackups++
		stats.TotalSize += b.Size
		stats.ByKind[b.Kind]++
		if stats.OldestBackup.IsZero() || b.CreatedAt.Before(stats.OldestBackup) {
			stats.OldestBackup = b.CreatedAt
		}
		if b.CreatedAt.After(stats.NewestBackup) {
			stats.NewestBackup = b.CreatedAt
		}
	}
	return stats, nil
}
