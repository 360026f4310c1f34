package sync

import (
	"fmt"
	"time"

	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/projector"
	"github.com/klauern/cognisync/internal/scanner"
)

// Status compares the store with the manifest without changing either.
type Status struct {
	InSync     bool
	Comparison scanner.Comparison
	// Items is the number of cognitives found in the store.
	Items           int
	ByType          map[model.CognitiveType]int
	ManifestEntries int
	LastUpdated     time.Time
	ScanErrors      []scanner.ItemError
	// Providers lists the enabled providers.
	Providers []model.Provider
}

// Status rescans the store and diffs it against the manifest.
func (e *Engine) Status() (*Status, error) {
	scan, err := e.scanner.Scan(scanner.Options{})
	if err != nil {
		return nil, &Error{Code: ErrCodeScan, Err: err}
	}

	items, dups := scanner.Dedupe(scan.Items, e.manifest.Entries())
	comparison := scanner.Compare(items, e.manifest.Entries())
	return &Status{
		InSync:          comparison.InSync(),
		Comparison:      comparison,
		Items:           len(items),
		ByType:          scanner.CountByType(items),
		ManifestEntries: e.manifest.EntryCount(),
		LastUpdated:     e.manifest.LastUpdated(),
		ScanErrors:      append(scan.Errors, dups...),
		Providers:       e.cfg.EnabledProviders(),
	}, nil
}

// ProviderStatus combines a provider's mirror verification with the state
// recorded by its last sync.
type ProviderStatus struct {
	Provider model.Provider
	Root     string
	Enabled  bool
	// Synced is false when the provider has never been synced.
	Synced       bool
	LastSync     time.Time
	Method       model.SyncMethod
	Items        []string
	Verification *projector.Verification
}

// Healthy returns true when every mirror is valid.
func (s *ProviderStatus) Healthy() bool {
	return s.Verification == nil || s.Verification.Healthy()
}

// ProviderStatus reports on a single provider.
func (e *Engine) ProviderStatus(provider model.Provider) (*ProviderStatus, error) {
	v, err := e.projector.VerifyProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", provider, err)
	}

	status := &ProviderStatus{
		Provider:     provider,
		Root:         e.projector.Root(provider),
		Verification: v,
	}
	for _, p := range e.cfg.EnabledProviders() {
		if p == provider {
			status.Enabled = true
			break
		}
	}
	if state, ok := e.manifest.ProviderSyncState(string(provider)); ok {
		status.Synced = true
		status.LastSync = state.LastSync
		status.Method = state.Method
		status.Items = state.Items
	}
	return status, nil
}

// VerifyProvider classifies a provider's mirrors.
func (e *Engine) VerifyProvider(provider model.Provider) (*projector.Verification, error) {
	return e.projector.VerifyProvider(provider)
}

// CleanProvider removes a provider's broken and orphaned mirrors.
func (e *Engine) CleanProvider(provider model.Provider, dryRun bool) ([]string, error) {
	return e.projector.CleanProvider(provider, dryRun)
}
