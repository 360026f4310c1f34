package scanner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/klauern/cognisync/internal/manifest"
)

// ErrDuplicateName is reported for an item whose name is already used by
// another item in the store. The manifest and provider mirrors are keyed by
// name alone, so only one of them can be tracked.
var ErrDuplicateName = errors.New("duplicate cognitive name")

// Dedupe keeps one item per name and reports the others as ItemErrors.
// The item matching the known entry's type and category wins; otherwise
// the first item in scan order does. The order of kept items is preserved.
func Dedupe(scanned []Item, known []manifest.Entry) ([]Item, []ItemError) {
	knownByName := make(map[string]manifest.Entry, len(known))
	for _, e := range known {
		knownByName[e.Name] = e
	}

	winner := make(map[string]int, len(scanned))
	for i, item := range scanned {
		cur, taken := winner[item.Name]
		if !taken {
			winner[item.Name] = i
			continue
		}
		entry, ok := knownByName[item.Name]
		if ok && !matchesEntry(scanned[cur], entry) && matchesEntry(item, entry) {
			winner[item.Name] = i
		}
	}
	if len(winner) == len(scanned) {
		return scanned, nil
	}

	kept := make([]Item, 0, len(winner))
	var dups []ItemError
	for i, item := range scanned {
		w := winner[item.Name]
		if w == i {
			kept = append(kept, item)
			continue
		}
		dups = append(dups, ItemError{
			Path: item.Dir,
			Err:  fmt.Errorf("%w: %q is already used by %s", ErrDuplicateName, item.Name, scanned[w].Dir),
		})
	}
	return kept, dups
}

func matchesEntry(item Item, entry manifest.Entry) bool {
	return item.Type == entry.Type && item.Category == entry.Category
}

// Comparison classifies scanned items against known manifest entries.
type Comparison struct {
	// New holds items whose name has no manifest entry.
	New []Item
	// Modified holds items whose recorded fingerprint differs from the scan.
	Modified []Item
	// Removed holds entries whose name no longer appears in the scan.
	Removed []manifest.Entry
	// UnchangedCount counts the remaining items.
	UnchangedCount int
	// Unverified names entries that were counted as unchanged only because
	// they carry no fingerprint to compare against.
	Unverified []string
}

// InSync reports whether the scan and the manifest agree.
func (c Comparison) InSync() bool {
	return len(c.New) == 0 && len(c.Modified) == 0 && len(c.Removed) == 0
}

// Compare diffs scanned items against known entries by name.
// An entry without a fingerprint is treated as unchanged rather than
// modified, and is listed in Unverified.
func Compare(scanned []Item, known []manifest.Entry) Comparison {
	var c Comparison

	knownByName := make(map[string]manifest.Entry, len(known))
	for _, e := range known {
		knownByName[e.Name] = e
	}
	scannedNames := make(map[string]bool, len(scanned))

	for _, item := range scanned {
		scannedNames[item.Name] = true

		entry, ok := knownByName[item.Name]
		switch {
		case !ok:
			c.New = append(c.New, item)
		case entry.Fingerprint != "" && entry.Fingerprint != item.Fingerprint:
			c.Modified = append(c.Modified, item)
		default:
			if entry.Fingerprint == "" {
				c.Unverified = append(c.Unverified, item.Name)
			}
			c.UnchangedCount++
		}
	}

	for _, e := range known {
		if !scannedNames[e.Name] {
			c.Removed = append(c.Removed, e)
		}
	}
	sort.Slice(c.Removed, func(i, j int) bool { return c.Removed[i].Name < c.Removed[j].Name })

	return c
}
