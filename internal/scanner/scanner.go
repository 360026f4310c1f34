// Package scanner walks the canonical store and discovers cognitives.
//
// The store has a fixed layout:
//
//	<root>/<type>s/<category>/<name>/<PrimaryFile>
//
// An item directory without its type's primary file is not an item and is
// skipped silently. Per-item read failures are collected in Result.Errors
// and never abort the scan.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/manifest"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/parser"
	"github.com/klauern/cognisync/internal/util"
	"github.com/klauern/cognisync/internal/validation"
)

// Item is a cognitive discovered in the canonical store.
type Item struct {
	Name        string
	Type        model.CognitiveType
	Category    model.Category
	Version     string
	Description string
	// Dir is the item directory inside the store.
	Dir string
	// FilePath is the full path of the primary file.
	FilePath    string
	Fingerprint string
	Metadata    parser.Metadata
}

// FileName returns the base name of the primary file.
func (i Item) FileName() string {
	if i.FilePath == "" {
		return ""
	}
	return filepath.Base(i.FilePath)
}

// ItemError records a failure to read a single item.
type ItemError struct {
	Path string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// Options restricts a scan. Empty slices mean no restriction.
type Options struct {
	Types      []model.CognitiveType
	Categories []model.Category
}

// Result is the outcome of a scan.
type Result struct {
	Items  []Item
	Errors []ItemError
}

// Scanner discovers cognitives under a store root.
type Scanner struct {
	root string
}

// New creates a scanner for the store at root.
func New(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the store root.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the store and returns every recognizable item.
// A missing store yields an empty result; a store root that exists but
// cannot be listed is an error.
func (s *Scanner) Scan(opts Options) (*Result, error) {
	defer logging.Timer("scan")()

	result := &Result{}

	info, err := os.Stat(s.root)
	if os.IsNotExist(err) {
		logging.Debug("store does not exist", logging.Path(s.root))
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat store %q: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store %q is not a directory", s.root)
	}
	if _, err := os.ReadDir(s.root); err != nil {
		return nil, fmt.Errorf("failed to read store %q: %w", s.root, err)
	}

	types := opts.Types
	if len(types) == 0 {
		types = model.AllCognitiveTypes()
	}
	categories := make(map[model.Category]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		categories[c] = true
	}

	for _, t := range types {
		s.scanType(t, categories, result)
	}

	logging.Debug("scan complete",
		logging.Path(s.root),
		logging.Count(len(result.Items)),
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Scanner) scanType(t model.CognitiveType, categories map[model.Category]bool, result *Result) {
	typeDir := filepath.Join(s.root, t.Plural())
	categoryDirs, err := listDirs(typeDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, ItemError{Path: typeDir, Err: err})
		}
		return
	}

	for _, category := range categoryDirs {
		if len(categories) > 0 && !categories[model.Category(category)] {
			continue
		}
		categoryDir := filepath.Join(typeDir, category)
		itemDirs, err := listDirs(categoryDir)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{Path: categoryDir, Err: err})
			continue
		}
		for _, name := range itemDirs {
			itemDir := filepath.Join(categoryDir, name)
			item, ok, err := readItem(itemDir, t, model.Category(category))
			if err != nil {
				logging.Debug("failed to read item", logging.Path(itemDir), logging.Err(err))
				result.Errors = append(result.Errors, ItemError{Path: itemDir, Err: err})
				continue
			}
			if ok {
				result.Items = append(result.Items, item)
			}
		}
	}
}

// readItem builds an Item from an item directory. ok is false when the
// directory has no primary file for t.
func readItem(dir string, t model.CognitiveType, category model.Category) (Item, bool, error) {
	filePath := filepath.Join(dir, t.FileName())
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return Item{}, false, nil
		}
		return Item{}, false, err
	}

	// #nosec G304 - filePath is inside the canonical store
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Item{}, false, fmt.Errorf("failed to read %q: %w", filePath, err)
	}

	md, body := parser.ParseMetadata(data)
	dirName := filepath.Base(dir)

	name := parser.FirstNonEmpty(
		func() string { return md.Name },
		func() string { return parser.FirstHeading(body) },
		func() string { return dirName },
	)
	if err := validation.ValidateName(name); err != nil {
		return Item{}, false, err
	}
	version := parser.FirstNonEmpty(
		func() string { return md.Version },
		func() string { return parser.FindVersion(string(data)) },
		func() string { return parser.DefaultVersion },
	)

	return Item{
		Name:        name,
		Type:        t,
		Category:    category,
		Version:     version,
		Description: md.Description,
		Dir:         dir,
		FilePath:    filePath,
		Fingerprint: Fingerprint(data),
		Metadata:    md,
	}, true, nil
}

// listDirs returns the visible subdirectories of dir, following symlinks.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if util.IsHidden(entry.Name()) {
			continue
		}
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil && info.IsDir() {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

// DetectType returns the first type, in priority order, whose primary file
// exists in dir.
func DetectType(dir string) (model.CognitiveType, bool) {
	for _, t := range model.AllCognitiveTypes() {
		if info, err := os.Stat(filepath.Join(dir, t.FileName())); err == nil && !info.IsDir() {
			return t, true
		}
	}
	return "", false
}

// ToManifestEntry converts a scanned item into a manifest entry installed now
// from a local source.
func ToManifestEntry(item Item) manifest.Entry {
	return NewManifestEntry(item, manifest.SourceLocal, time.Now().UTC())
}

// NewManifestEntry converts a scanned item into a manifest entry.
func NewManifestEntry(item Item, source manifest.Source, installedAt time.Time) manifest.Entry {
	return manifest.Entry{
		Name:        item.Name,
		Type:        item.Type,
		Category:    item.Category,
		Version:     item.Version,
		InstalledAt: installedAt,
		Source:      source,
		Fingerprint: item.Fingerprint,
	}
}

// CountByType tallies items per cognitive type.
func CountByType(items []Item) map[model.CognitiveType]int {
	counts := make(map[model.CognitiveType]int)
	for _, item := range items {
		counts[item.Type]++
	}
	return counts
}
