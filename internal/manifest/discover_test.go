package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/cognisync/internal/config"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.FileName), []byte("storage:\n  dir: store\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m := New(filepath.Join(root, "store", config.ManifestFileName))
	_ = m.AddEntry(sampleEntry("a"))
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}

	project, err := Discover(sub)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	wantRoot, _ := filepath.Abs(root)
	if project.Root != wantRoot {
		t.Errorf("Root = %q, want %q", project.Root, wantRoot)
	}
	if project.Manifest.EntryCount() != 1 {
		t.Errorf("EntryCount() = %d, want 1", project.Manifest.EntryCount())
	}
}

func TestOpenInvalidManifest(t *testing.T) {
	root := t.TempDir()
	path := config.Default().ManifestPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Error("expected error for manifest that is not an object")
	}
}
