package sync

import (
	"github.com/klauern/cognisync/internal/manifest"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/scanner"
)

// Operation is a manifest change.
type Operation string

const (
	// OpAdd records an item seen in the store for the first time.
	OpAdd Operation = "add"
	// OpUpdate replaces the entry of an item whose content changed.
	OpUpdate Operation = "update"
	// OpRemove drops the entry of an item that left the store.
	OpRemove Operation = "remove"
)

// Action is one pending manifest change.
type Action struct {
	Operation Operation
	// Item is the scanned item for add and update. Nil for remove.
	Item   *scanner.Item
	Name   string
	Type   model.CognitiveType
	Reason string
}

// buildActions flattens a comparison into add, update and remove actions,
// in that order.
func buildActions(c scanner.Comparison) []Action {
	actions := make([]Action, 0, len(c.New)+len(c.Modified)+len(c.Removed))
	for i := range c.New {
		item := &c.New[i]
		actions = append(actions, Action{
			Operation: OpAdd,
			Item:      item,
			Name:      item.Name,
			Type:      item.Type,
			Reason:    "new " + item.Type.String(),
		})
	}
	for i := range c.Modified {
		item := &c.Modified[i]
		actions = append(actions, Action{
			Operation: OpUpdate,
			Item:      item,
			Name:      item.Name,
			Type:      item.Type,
			Reason:    "content changed",
		})
	}
	for _, entry := range c.Removed {
		actions = append(actions, Action{
			Operation: OpRemove,
			Name:      entry.Name,
			Type:      entry.Type,
			Reason:    "no longer in store",
		})
	}
	return actions
}

// apply performs one action against the manifest.
func apply(m *manifest.Manifest, a Action) error {
	switch a.Operation {
	case OpAdd:
		return m.AddEntry(scanner.ToManifestEntry(*a.Item))
	case OpUpdate:
		entry := scanner.ToManifestEntry(*a.Item)
		if old, ok := m.Entry(a.Name); ok {
			entry.InstalledAt = old.InstalledAt
			entry.Source = old.Source
		}
		return m.UpdateEntry(a.Name, entry)
	case OpRemove:
		return m.RemoveEntry(a.Name)
	default:
		return nil
	}
}
