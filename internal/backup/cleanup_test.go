package backup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/klauern/cognisync/internal/util"
)

func seedIndex(t *testing.T, s *Store, now time.Time, entries map[string]time.Duration) {
	t.Helper()
	index, err := s.LoadIndex()
	util.AssertNoError(t, err)
	for id, age := range entries {
		path := filepath.Join(s.Dir(), "manifest", id+".json")
		util.WriteFile(t, path, id)
		index.Backups[id] = Metadata{
			ID:         id,
			SourcePath: "/project/.cognisync/manifest.json",
			BackupPath: path,
			Kind:       "manifest",
			CreatedAt:  now.Add(-age),
		}
	}
	util.AssertNoError(t, s.SaveIndex(index))
}

func TestCleanup(t *testing.T) {
	day := 24 * time.Hour
	entries := map[string]time.Duration{
		"a": 1 * day,
		"b": 2 * day,
		"c": 3 * day,
		"d": 40 * day,
	}

	tests := map[string]struct {
		opts      CleanupOptions
		wantCount int
		remaining int
	}{
		"count limit":       {opts: CleanupOptions{MaxBackups: 2}, wantCount: 2, remaining: 2},
		"age limit":         {opts: CleanupOptions{MaxAge: 30 * day}, wantCount: 1, remaining: 3},
		"combined":          {opts: CleanupOptions{MaxBackups: 3, MaxAge: 2*day + time.Hour}, wantCount: 2, remaining: 2},
		"unlimited":         {opts: CleanupOptions{}, wantCount: 0, remaining: 4},
		"keep at least one": {opts: CleanupOptions{MaxAge: time.Hour, KeepAtLeastOne: true}, wantCount: 3, remaining: 1},
		"keep none":         {opts: CleanupOptions{MaxAge: time.Hour}, wantCount: 4, remaining: 0},
		"dry run":           {opts: CleanupOptions{MaxBackups: 1, DryRun: true}, wantCount: 3, remaining: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore(t.TempDir())
			now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			s.now = func() time.Time { return now }
			seedIndex(t, s, now, entries)

			deleted, err := s.Cleanup(tt.opts)
			util.AssertNoError(t, err)
			util.AssertEqual(t, len(deleted), tt.wantCount)

			backups, err := s.List("")
			util.AssertNoError(t, err)
			util.AssertEqual(t, len(backups), tt.remaining)
		})
	}
}

func TestCleanupKeepsNewest(t *testing.T) {
	s := NewStore(t.TempDir())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	seedIndex(t, s, now, map[string]time.Duration{"old": 48 * time.Hour, "new": 24 * time.Hour})

	_, err := s.Cleanup(CleanupOptions{MaxAge: time.Hour, KeepAtLeastOne: true})
	util.AssertNoError(t, err)

	backups, err := s.List("")
	util.AssertNoError(t, err)
	if len(backups) != 1 || backups[0].ID != "new" {
		t.Errorf("remaining = %+v, want only new", backups)
	}
}

func TestStats(t *testing.T) {
	s, dir := newTestStore(t)

	empty, err := s.Stats()
	util.AssertNoError(t, err)
	util.AssertEqual(t, empty.TotalBackups, 0)
	if !empty.OldestBackup.IsZero() {
		t.Error("OldestBackup should be zero for an empty store")
	}

	source := filepath.Join(dir, "manifest.json")
	util.WriteFile(t, source, "12345")
	first, err := s.Create(source, Options{Kind: "manifest"})
	util.AssertNoError(t, err)
	last, err := s.Create(source, Options{Kind: "config"})
	util.AssertNoError(t, err)

	stats, err := s.Stats()
	util.AssertNoError(t, err)
	util.AssertEqual(t, stats.TotalBackups, 2)
	util.AssertEqual(t, stats.TotalSize, int64(10))
	util.AssertEqual(t, stats.ByKind["manifest"], 1)
	util.AssertEqual(t, stats.ByKind["config"], 1)
	if !stats.OldestBackup.Equal(first.CreatedAt) || !stats.NewestBackup.Equal(last.CreatedAt) {
		t.Errorf("range = %v..%v, want %v..%v", stats.OldestBackup, stats.NewestBackup, first.CreatedAt, last.CreatedAt)
	}
}
