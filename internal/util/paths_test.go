package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestExpandPath(t *testing.T) {
	home := HomeDir()
	tests := map[string]struct {
		path    string
		baseDir string
		want    string
	}{
		"empty":              {path: "", baseDir: "/base", want: ""},
		"tilde":              {path: "~", want: home},
		"tilde prefix":       {path: "~/.claude", want: filepath.Join(home, ".claude")},
		"absolute":           {path: "/opt/tools/", baseDir: "/base", want: "/opt/tools"},
		"relative with base": {path: ".cursor", baseDir: "/project", want: "/project/.cursor"},
		"relative no base":   {path: "a/../b", want: "b"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ExpandPath(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("ExpandPath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden(".git") {
		t.Error("expected .git to be hidden")
	}
	if IsHidden("skills") {
		t.Error("expected skills to be visible")
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	if !PathExists(dir) {
		t.Errorf("PathExists(%q) = false", dir)
	}
	if PathExists(filepath.Join(dir, "missing")) {
		t.Error("PathExists() = true for missing path")
	}
	if PathExists("") {
		t.Error("PathExists(\"\") = true")
	}

	// a dangling symlink still exists as an entry
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "nowhere"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if !PathExists(link) {
		t.Error("PathExists() = false for dangling symlink")
	}
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		path, root string
		want       bool
	}{
		{"/store/skills/a", "/store", true},
		{"/store", "/store", true},
		{"/store-other/a", "/store", false},
		{"/elsewhere/a", "/store", false},
		{"/store/../etc", "/store", false},
		{"/store/..hidden/a", "/store", true},
	}
	for _, tt := range tests {
		if got := IsWithin(tt.path, tt.root); got != tt.want {
			t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
		}
	}
}
