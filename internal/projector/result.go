package projector

import (
	"fmt"
	"strings"

	"github.com/klauern/cognisync/internal/model"
)

// Action is what a projection did with a single mirror.
type Action string

const (
	// ActionCreated indicates a mirror was created (or would be, in a dry run).
	ActionCreated Action = "created"

	// ActionSkipped indicates a valid mirror already existed.
	ActionSkipped Action = "skipped"

	// ActionRemoved indicates an orphaned or broken mirror was removed.
	ActionRemoved Action = "removed"

	// ActionFailed indicates the mirror could not be created or removed.
	ActionFailed Action = "failed"
)

// MirrorResult is the outcome for one mirror.
type MirrorResult struct {
	Name string
	Type model.CognitiveType
	// Path is the mirror path inside the provider root.
	Path string
	// Source is the store path the mirror points at. Empty for removals.
	Source string
	Action Action
	// Method is how the mirror was created. It differs from the
	// projection's method when a symlink fell back to a copy.
	Method model.SyncMethod
	Error  error
}

// ProviderResult contains the outcome of projecting onto one provider.
type ProviderResult struct {
	Provider model.Provider
	// Root is the provider root directory.
	Root string
	// Method is the method decided for this projection.
	Method  model.SyncMethod
	DryRun  bool
	Mirrors []MirrorResult
	// Err is set when the projection could not start at all.
	Err error
}

// Created returns mirrors that were created.
func (r *ProviderResult) Created() []MirrorResult {
	return r.filterByAction(ActionCreated)
}

// Skipped returns mirrors that already existed.
func (r *ProviderResult) Skipped() []MirrorResult {
	return r.filterByAction(ActionSkipped)
}

// Removed returns mirrors that were removed.
func (r *ProviderResult) Removed() []MirrorResult {
	return r.filterByAction(ActionRemoved)
}

// Failed returns mirrors that failed.
func (r *ProviderResult) Failed() []MirrorResult {
	return r.filterByAction(ActionFailed)
}

func (r *ProviderResult) filterByAction(action Action) []MirrorResult {
	var filtered []MirrorResult
	for _, mr := range r.Mirrors {
		if mr.Action == action {
			filtered = append(filtered, mr)
		}
	}
	return filtered
}

// Errors returns every error recorded by the projection.
func (r *ProviderResult) Errors() []error {
	var errs []error
	if r.Err != nil {
		errs = append(errs, r.Err)
	}
	for _, mr := range r.Failed() {
		errs = append(errs, mr.Error)
	}
	return errs
}

// Success returns true if the projection recorded no errors.
func (r *ProviderResult) Success() bool {
	return len(r.Errors()) == 0
}

// Names returns the mirror names in order.
func Names(results []MirrorResult) []string {
	names := make([]string, 0, len(results))
	for _, mr := range results {
		names = append(names, mr.Name)
	}
	return names
}

// Summary returns a human-readable summary of the projection.
func (r *ProviderResult) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}
	if r.Err != nil {
		sb.WriteString(fmt.Sprintf("%s: %v\n", r.Provider, r.Err))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Projected onto %s using %s\n", r.Provider, r.Method))
	sb.WriteString(fmt.Sprintf("  Created: %d\n", len(r.Created())))
	sb.WriteString(fmt.Sprintf("  Skipped: %d\n", len(r.Skipped())))
	sb.WriteString(fmt.Sprintf("  Removed: %d\n", len(r.Removed())))
	sb.WriteString(fmt.Sprintf("  Failed:  %d\n", len(r.Failed())))

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", f.Name, f.Error))
		}
	}

	return sb.String()
}
