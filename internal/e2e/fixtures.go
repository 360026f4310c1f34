package e2e

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/cognisync/internal/model"
)

// WriteFile writes content to a path relative to the project root.
// It creates parent directories as needed.
func (h *Harness) WriteFile(relPath, content string) string {
	h.t.Helper()
	fullPath := filepath.Join(h.project, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		h.t.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		h.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// WriteCognitive writes the primary file of a cognitive into the store
// with a front matter header and returns the item directory.
func (h *Harness) WriteCognitive(t model.CognitiveType, category, name, version, body string) string {
	h.t.Helper()

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("name: " + name + "\n")
	if version != "" {
		b.WriteString("version: " + version + "\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(body)

	dir := filepath.Join(h.Store(), t.Plural(), category, name)
	rel, err := filepath.Rel(h.project, filepath.Join(dir, t.FileName()))
	if err != nil {
		h.t.Fatalf("failed to relativize %s: %v", dir, err)
	}
	h.WriteFile(rel, b.String())
	return dir
}

// RemoveCognitive deletes an item directory from the store.
func (h *Harness) RemoveCognitive(t model.CognitiveType, category, name string) {
	h.t.Helper()
	if err := os.RemoveAll(filepath.Join(h.Store(), t.Plural(), category, name)); err != nil {
		h.t.Fatalf("failed to remove %s: %v", name, err)
	}
}

// Snapshot records every path under the project with its content or link
// target.
func (h *Harness) Snapshot() map[string]string {
	h.t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(h.project, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(h.project, path)
		switch {
		case d.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			snap[rel] = "-> " + target
		case d.IsDir():
			snap[rel] = "dir"
		default:
			// #nosec G304 - path is inside the test project
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap[rel] = string(data)
		}
		return nil
	})
	if err != nil {
		h.t.Fatalf("failed to snapshot project: %v", err)
	}
	return snap
}
