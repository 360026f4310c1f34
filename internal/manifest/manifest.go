// Package manifest persists the registry of installed cognitives and the
// last sync state of every provider.
//
// The manifest is a single JSON document. Save always rewrites the whole
// document from memory; there is no locking, so the last writer wins.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/model"
)

// DocumentVersion is the current manifest format version.
const DocumentVersion = "1.0"

var (
	// ErrEntryExists is returned when adding a name that is already present.
	ErrEntryExists = errors.New("manifest entry already exists")
	// ErrEntryNotFound is returned when updating or removing an unknown name.
	ErrEntryNotFound = errors.New("manifest entry not found")
)

// Source records where an installed cognitive came from.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceLocal    Source = "local"
	SourceGitHub   Source = "github"
)

// Entry is the persisted record of one installed cognitive.
type Entry struct {
	Name        string              `json:"name"`
	Type        model.CognitiveType `json:"type"`
	Category    model.Category      `json:"category"`
	Version     string              `json:"version"`
	InstalledAt time.Time           `json:"installedAt"`
	Source      Source              `json:"source"`
	Fingerprint string              `json:"fingerprint,omitempty"`
}

// ProviderSyncState records the outcome of the last projection onto a provider.
type ProviderSyncState struct {
	LastSync time.Time        `json:"lastSync"`
	Method   model.SyncMethod `json:"method"`
	Items    []string         `json:"items"`
}

// Document is the on-disk shape of the manifest.
type Document struct {
	Version     string                       `json:"version"`
	LastUpdated time.Time                    `json:"lastUpdated"`
	Cognitives  map[string]Entry             `json:"cognitives"`
	Syncs       map[string]ProviderSyncState `json:"syncs"`
}

// Manifest is the in-memory manifest bound to a file path.
type Manifest struct {
	path string
	doc  Document
}

// New returns an empty manifest that will be saved to path.
func New(path string) *Manifest {
	return &Manifest{
		path: path,
		doc: Document{
			Version:    DocumentVersion,
			Cognitives: make(map[string]Entry),
			Syncs:      make(map[string]ProviderSyncState),
		},
	}
}

// Load reads the manifest at path. A missing file yields an empty manifest;
// a file that cannot be read or decoded is an error.
func Load(path string) (*Manifest, error) {
	m := New(path)

	// #nosec G304 - path is the project's manifest location
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("manifest not found, starting empty", logging.Path(path))
			return m, nil
		}
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	if err := json.Unmarshal(data, &m.doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}
	if m.doc.Cognitives == nil {
		m.doc.Cognitives = make(map[string]Entry)
	}
	if m.doc.Syncs == nil {
		m.doc.Syncs = make(map[string]ProviderSyncState)
	}
	if m.doc.Version == "" {
		m.doc.Version = DocumentVersion
	}

	logging.Debug("loaded manifest",
		logging.Path(path),
		logging.Count(len(m.doc.Cognitives)),
	)
	return m, nil
}

// Path returns the file the manifest is saved to.
func (m *Manifest) Path() string {
	return m.path
}

// LastUpdated returns the time of the last successful Save.
func (m *Manifest) LastUpdated() time.Time {
	return m.doc.LastUpdated
}

// Entries returns all entries sorted by name.
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, 0, len(m.doc.Cognitives))
	for _, e := range m.doc.Cognitives {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// EntryCount returns the number of entries.
func (m *Manifest) EntryCount() int {
	return len(m.doc.Cognitives)
}

// Entry returns the entry for name.
func (m *Manifest) Entry(name string) (Entry, bool) {
	e, ok := m.doc.Cognitives[name]
	return e, ok
}

// AddEntry records a new entry.
func (m *Manifest) AddEntry(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("manifest entry has no name")
	}
	if _, exists := m.doc.Cognitives[e.Name]; exists {
		return fmt.Errorf("%w: %s", ErrEntryExists, e.Name)
	}
	m.doc.Cognitives[e.Name] = e
	return nil
}

// UpdateEntry replaces the entry for name. The stored entry keeps its key
// even if e.Name differs.
func (m *Manifest) UpdateEntry(name string, e Entry) error {
	if _, exists := m.doc.Cognitives[name]; !exists {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	e.Name = name
	m.doc.Cognitives[name] = e
	return nil
}

// RemoveEntry deletes the entry for name.
func (m *Manifest) RemoveEntry(name string) error {
	if _, exists := m.doc.Cognitives[name]; !exists {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	delete(m.doc.Cognitives, name)
	return nil
}

// SetProviderSyncState records the last sync of a provider.
func (m *Manifest) SetProviderSyncState(provider string, state ProviderSyncState) {
	if state.Items == nil {
		state.Items = []string{}
	}
	m.doc.Syncs[provider] = state
}

// ProviderSyncState returns the last recorded sync of a provider.
func (m *Manifest) ProviderSyncState(provider string) (ProviderSyncState, bool) {
	s, ok := m.doc.Syncs[provider]
	return s, ok
}

// Save writes the full document to disk, replacing any previous content.
func (m *Manifest) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	m.doc.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(m.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	// #nosec G306 - manifest is project data, readable by collaborators
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", m.path, err)
	}

	logging.Debug("saved manifest",
		logging.Path(m.path),
		logging.Count(len(m.doc.Cognitives)),
	)
	return nil
}
