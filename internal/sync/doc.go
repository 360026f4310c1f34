// Package sync reconciles the manifest with the canonical store and then
// projects the store onto every enabled provider.
//
// # Phases
//
// A sync pass runs in a fixed order:
//
//	scanning -> comparing -> reconciling -> saving -> syncing-providers -> complete
//
// A failed scan ends the pass with a single SCAN_FAILED error. Failures in
// later phases are collected in Result.Errors and the pass continues.
//
// # Progress Reporting
//
// Progress is reported through a ProgressFunc invoked in-line at each phase
// boundary:
//
//	result, err := engine.Sync(ctx, sync.Options{}, func(e sync.ProgressEvent) {
//	    fmt.Printf("%s: %s\n", e.Phase, e.Message)
//	})
//
// The callback runs on the syncing goroutine, so a slow callback stalls
// the pass.
//
// # Dry Runs
//
// With Options.DryRun set, neither the manifest nor any provider directory
// is written; the result still lists the actions and mirrors that a real
// pass would produce. Preview is shorthand for this.
package sync
