// Package backup keeps hashed snapshots of project files, such as the
// manifest, inside the storage directory.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/cognisync/internal/logging"
)

const (
	// DirPerm is the permission for backup directories (rwxr-x---)
	DirPerm = 0o750
	// FilePerm is the permission for backup files (rw-r-----)
	FilePerm = 0o640
)

// ErrNotFound is returned for unknown backup IDs.
var ErrNotFound = errors.New("backup not found")

// Options configures a single backup
type Options struct {
	Kind        string // What was backed up (manifest, config)
	Description string // Human-readable description
}

// Store manages backups under one directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a Store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the backup directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create snapshots the file at sourcePath.
func (s *Store) Create(sourcePath string, opts Options) (*Metadata, error) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path %q: %w", sourcePath, err)
	}

	// #nosec G304 - sourcePath is a project file chosen by the caller
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", sourcePath, err)
	}

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])
	created := s.now()
	id := created.Format("20060102-150405.000000-") + hashStr[:8]

	kind := opts.Kind
	if kind == "" {
		kind = "file"
	}
	kindDir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(kindDir, DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath := filepath.Join(kindDir, id+filepath.Ext(sourcePath))
	if err := os.WriteFile(backupPath, content, FilePerm); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	metadata := &Metadata{
		ID:          id,
		SourcePath:  sourcePath,
		BackupPath:  backupPath,
		Kind:        kind,
		CreatedAt:   created,
		ModifiedAt:  sourceInfo.ModTime(),
		Hash:        hashStr,
		Size:        sourceInfo.Size(),
		Description: opts.Description,
	}

	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	index.Backups[id] = *metadata
	if err := s.SaveIndex(index); err != nil {
		return nil, err
	}

	logging.Debug("backup created", logging.Path(sourcePath), "id", id)
	return metadata, nil
}

// Restore writes a backup back to targetPath after checking its hash.
func (s *Store) Restore(id, targetPath string) error {
	metadata, content, err := s.read(id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), DirPerm); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}
	if err := os.WriteFile(targetPath, content, FilePerm); err != nil {
		return fmt.Errorf("failed to write target file: %w", err)
	}

	logging.Debug("backup restored", logging.Path(targetPath), "id", metadata.ID)
	return nil
}

// Verify checks that a backup file is present and matches its hash.
func (s *Store) Verify(id string) error {
	_, _, err := s.read(id)
	return err
}

func (s *Store) read(id string) (Metadata, []byte, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return Metadata{}, nil, err
	}
	metadata, exists := index.Backups[id]
	if !exists {
		return Metadata{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	content, err := os.ReadFile(metadata.BackupPath)
	if err != nil {
		return metadata, nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	hash := sha256.Sum256(content)
	if hashStr := hex.EncodeToString(hash[:]); hashStr != metadata.Hash {
		return metadata, nil, fmt.Errorf("backup file corrupted: hash mismatch (expected %s, got %s)", metadata.Hash, hashStr)
	}
	return metadata, content, nil
}

// List returns all backups of the given kind, newest first. An empty kind
// lists everything.
func (s *Store) List(kind string) ([]Metadata, error) {
	index, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}

	backups := index.List()
	if kind == "" {
		return backups, nil
	}
	filtered := make([]Metadata, 0, len(backups))
	for _, b := range backups {
		if b.Kind == kind {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// Delete removes a backup file and its index entry.
func (s *Store) Delete(id string) error {
	index, err := s.LoadIndex()
	if err != nil {
		return err
	}
	metadata, exists := index.Backups[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := os.Remove(metadata.BackupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}
	delete(index.Backups, id)
	return s.SaveIndex(index)
}
