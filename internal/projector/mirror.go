package projector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/scanner"
	"github.com/klauern/cognisync/internal/util"
)

// mirrorExtensions are stripped from file mirror names when deriving the
// item name. Mirrors with any other extension keep it in their name.
var mirrorExtensions = []string{".md", ".mdc", ".yaml", ".yml", ".json"}

// Mirror is an entry found in a provider type directory.
type Mirror struct {
	// Path is the full path of the entry.
	Path string
	// Name is the item name derived from the entry name.
	Name string
	Type model.CognitiveType
	// IsSymlink is true when the entry is a symlink rather than a copy.
	IsSymlink bool
	// Target is the resolved absolute symlink target, or Path for copies.
	Target string
	// Valid is false when a symlink target no longer exists.
	Valid bool
}

// Key identifies a mirror by type and item name.
type Key struct {
	Type model.CognitiveType
	Name string
}

func (m Mirror) key() Key {
	return Key{Type: m.Type, Name: m.Name}
}

// mapping is a wanted mirror computed from a scanned item.
type mapping struct {
	item   scanner.Item
	source string
	target string
}

func (m mapping) key() Key {
	return Key{Type: m.item.Type, Name: m.item.Name}
}

// mirrorName returns the entry name used for an item in a provider directory.
// Folder types keep the bare item name; file types get the primary file's
// extension so that many AGENT.md files do not collide.
func mirrorName(item scanner.Item) string {
	if item.Type.SyncMode() == model.SyncModeFolder {
		return item.Name
	}
	ext := filepath.Ext(item.FileName())
	if ext == "" {
		ext = ".md"
	}
	return item.Name + ext
}

// deriveName reverses mirrorName for an entry found on disk.
func deriveName(t model.CognitiveType, entryName string) string {
	if t.SyncMode() == model.SyncModeFolder {
		return entryName
	}
	lower := strings.ToLower(entryName)
	for _, ext := range mirrorExtensions {
		if strings.HasSuffix(lower, ext) && len(entryName) > len(ext) {
			return entryName[:len(entryName)-len(ext)]
		}
	}
	return entryName
}

// wantedMappings computes the mirror set for a provider layout.
// Items whose type the provider does not map are ignored.
func wantedMappings(root string, layout model.ProviderLayout, items []scanner.Item) []mapping {
	mappings := make([]mapping, 0, len(items))
	for _, item := range items {
		dir, ok := layout.Dirs[item.Type]
		if !ok {
			continue
		}
		source := item.FilePath
		if item.Type.SyncMode() == model.SyncModeFolder {
			source = item.Dir
		}
		mappings = append(mappings, mapping{
			item:   item,
			source: source,
			target: filepath.Join(root, dir, mirrorName(item)),
		})
	}
	return mappings
}

// listMirrors enumerates every non-hidden entry in the provider's type
// directories. Missing directories are skipped.
func listMirrors(root string, layout model.ProviderLayout, types []model.CognitiveType) ([]Mirror, error) {
	if len(types) == 0 {
		types = model.AllCognitiveTypes()
	}

	// Each type has its own directory in a layout, so a mirror's type is
	// known from where it lives.
	var mirrors []Mirror
	for _, t := range types {
		sub, ok := layout.Dirs[t]
		if !ok {
			continue
		}

		dir := filepath.Join(root, sub)
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if util.IsHidden(entry.Name()) {
				continue
			}
			m, err := readMirror(filepath.Join(dir, entry.Name()), t)
			if err != nil {
				return nil, err
			}
			mirrors = append(mirrors, m)
		}
	}
	return mirrors, nil
}

func readMirror(path string, t model.CognitiveType) (Mirror, error) {
	m := Mirror{
		Path:   path,
		Name:   deriveName(t, filepath.Base(path)),
		Type:   t,
		Target: path,
		Valid:  true,
	}

	info, err := os.Lstat(path)
	if err != nil {
		return m, err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return m, nil
	}

	link, err := os.Readlink(path)
	if err != nil {
		return m, err
	}
	if !filepath.IsAbs(link) {
		link = filepath.Join(filepath.Dir(path), link)
	}
	m.IsSymlink = true
	m.Target = filepath.Clean(link)
	_, statErr := os.Stat(m.Target)
	m.Valid = statErr == nil
	return m, nil
}
