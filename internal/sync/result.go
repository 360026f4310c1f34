package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/klauern/cognisync/internal/projector"
	"github.com/klauern/cognisync/internal/scanner"
)

// Result contains the complete outcome of a sync pass.
type Result struct {
	Added     int
	Removed   int
	Updated   int
	Unchanged int
	// Total is the manifest size after the pass.
	Total   int
	Actions []Action
	// Errors holds every failure, wrapped in *Error.
	Errors   []error
	Duration time.Duration
	// Providers holds one projection result per provider, in name order.
	Providers []*projector.ProviderResult
	DryRun    bool
	// ScanErrors lists items that could not be read.
	ScanErrors []scanner.ItemError
	// Unverified names manifest entries without a recorded fingerprint.
	Unverified []string
}

// Success returns true if the pass recorded no errors.
func (r *Result) Success() bool {
	return len(r.Errors) == 0
}

// Changed returns the number of manifest changes.
func (r *Result) Changed() int {
	return r.Added + r.Updated + r.Removed
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Manifest: %d added, %d updated, %d removed, %d unchanged (%d total)\n",
		r.Added, r.Updated, r.Removed, r.Unchanged, r.Total))

	for _, pr := range r.Providers {
		if pr.Err != nil {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", pr.Provider, pr.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s (%s): %d created, %d skipped, %d removed, %d failed\n",
			pr.Provider, pr.Method, len(pr.Created()), len(pr.Skipped()), len(pr.Removed()), len(pr.Failed())))
	}

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %v\n", err))
		}
	}

	return sb.String()
}
