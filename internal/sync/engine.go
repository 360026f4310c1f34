package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/klauern/cognisync/internal/backup"
	"github.com/klauern/cognisync/internal/config"
	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/manifest"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/projector"
	"github.com/klauern/cognisync/internal/scanner"
	"github.com/klauern/cognisync/internal/util"
)

// Options configures a sync pass.
type Options struct {
	// DryRun reports changes without writing the manifest or any provider.
	DryRun bool

	// Types restricts the pass to these cognitive types. Empty means all.
	Types []model.CognitiveType

	// Categories restricts the pass to these categories. Empty means all.
	Categories []model.Category

	// Provider limits projection to one enabled provider.
	Provider model.Provider

	// Copy forces copies instead of symlinks.
	Copy bool

	// Force replaces existing mirrors.
	Force bool

	// ManifestOnly skips provider projection.
	ManifestOnly bool
}

// Engine runs sync passes for one project.
type Engine struct {
	root      string
	cfg       *config.Config
	scanner   *scanner.Scanner
	manifest  *manifest.Manifest
	projector *projector.Projector
	backups   *backup.Store
	now       func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithProjectorOptions passes options to the Engine's projector.
func WithProjectorOptions(opts ...projector.Option) EngineOption {
	return func(e *Engine) {
		e.projector = projector.New(e.cfg.StoreRoot(e.root), e.providerRoot, opts...)
	}
}

// New creates an Engine for the project at root.
func New(root string, cfg *config.Config, m *manifest.Manifest, opts ...EngineOption) *Engine {
	e := &Engine{
		root:     root,
		cfg:      cfg,
		scanner:  scanner.New(cfg.StoreRoot(root)),
		manifest: m,
		backups:  backup.NewStore(cfg.BackupDir(root)),
		now:      time.Now,
	}
	e.projector = projector.New(cfg.StoreRoot(root), e.providerRoot)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromProject creates an Engine for a discovered project.
func NewFromProject(p *manifest.Project, opts ...EngineOption) *Engine {
	return New(p.Root, p.Config, p.Manifest, opts...)
}

func (e *Engine) providerRoot(p model.Provider) string {
	return e.cfg.ProviderRoot(e.root, p)
}

// Manifest returns the manifest the Engine reconciles.
func (e *Engine) Manifest() *manifest.Manifest {
	return e.manifest
}

// Projector returns the Engine's projector.
func (e *Engine) Projector() *projector.Projector {
	return e.projector
}

// Preview runs a dry-run pass.
func (e *Engine) Preview(ctx context.Context, opts Options) (*Result, error) {
	opts.DryRun = true
	return e.Sync(ctx, opts, nil)
}

// Sync reconciles the manifest with the store and then projects the store
// onto every enabled provider. The returned error is non-nil only when the
// pass ended early: a failed scan (also recorded in Result.Errors) or a
// cancelled context.
func (e *Engine) Sync(ctx context.Context, opts Options, progress ProgressFunc) (*Result, error) {
	start := e.now()
	result := &Result{DryRun: opts.DryRun}
	defer func() {
		result.Duration = e.now().Sub(start)
	}()

	logger := logging.FromContext(ctx)
	logger.Debug("starting sync",
		logging.Operation("sync"),
		slog.Bool("dry_run", opts.DryRun),
		slog.Bool("manifest_only", opts.ManifestOnly),
		logging.Provider(string(opts.Provider)))

	progress.emit(ProgressEvent{Phase: PhaseScanning, Message: "Scanning " + e.scanner.Root()})
	scan, err := e.scanner.Scan(scanner.Options{Types: opts.Types, Categories: opts.Categories})
	if err != nil {
		syncErr := &Error{Code: ErrCodeScan, Err: err}
		result.Errors = []error{syncErr}
		logger.Error("scan failed", logging.Err(err))
		return result, syncErr
	}
	items, dups := scanner.Dedupe(scan.Items, e.manifest.Entries())
	result.ScanErrors = append(scan.Errors, dups...)
	for _, ie := range result.ScanErrors {
		logger.Warn("skipping cognitive", logging.Path(ie.Path), logging.Err(ie.Err))
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	progress.emit(ProgressEvent{Phase: PhaseComparing, Message: "Comparing with manifest"})
	inScope, outOfScope := splitEntries(e.manifest.Entries(), opts)
	comparison := scanner.Compare(items, inScope)
	result.Actions = buildActions(comparison)
	result.Added = len(comparison.New)
	result.Updated = len(comparison.Modified)
	result.Removed = len(comparison.Removed)
	result.Unchanged = comparison.UnchangedCount
	result.Unverified = comparison.Unverified
	if err := ctx.Err(); err != nil {
		return result, err
	}

	progress.emit(ProgressEvent{Phase: PhaseReconciling, Message: "Reconciling manifest"})
	if !opts.DryRun {
		for _, a := range result.Actions {
			if err := apply(e.manifest, a); err != nil {
				logger.Warn("manifest action failed", logging.Cognitive(a.Name), logging.Operation(string(a.Operation)), logging.Err(err))
				result.Errors = append(result.Errors, &Error{Code: ErrCodeApply, Name: a.Name, Err: err})
			}
		}
		e.backfillFingerprints(items, comparison.Unverified)
	}

	progress.emit(ProgressEvent{Phase: PhaseSaving, Message: "Saving manifest"})
	if !opts.DryRun {
		e.backupManifest()
		if err := e.manifest.Save(); err != nil {
			result.Errors = append(result.Errors, &Error{Code: ErrCodeSave, Err: err})
		}
	}

	if !opts.ManifestOnly {
		e.syncProviders(ctx, items, outOfScope, opts, progress, result)
	}

	result.Total = e.manifest.EntryCount()
	progress.emit(ProgressEvent{Phase: PhaseComplete, Message: "Sync complete"})

	logger.Debug("sync finished",
		slog.Int("added", result.Added),
		slog.Int("updated", result.Updated),
		slog.Int("removed", result.Removed),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

// syncProviders projects the scanned items onto each provider and records
// the sync state. Provider state is persisted with a second save.
func (e *Engine) syncProviders(ctx context.Context, items []scanner.Item, outOfScope []manifest.Entry, opts Options, progress ProgressFunc, result *Result) {
	providers := e.selectProviders(opts.Provider)

	preserve := make(map[projector.Key]bool, len(outOfScope))
	for _, entry := range outOfScope {
		preserve[projector.Key{Type: entry.Type, Name: entry.Name}] = true
	}
	projOpts := projector.Options{
		Copy:     opts.Copy || e.cfg.SyncMethod() == model.MethodCopy,
		Force:    opts.Force || e.cfg.Sync.Force,
		DryRun:   opts.DryRun,
		Types:    opts.Types,
		Preserve: func(k projector.Key) bool { return preserve[k] },
	}

	for i, p := range providers {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, &Error{Code: ErrCodeProvider, Provider: p, Err: ctx.Err()})
			return
		}
		progress.emit(ProgressEvent{
			Phase:    PhaseSyncingProviders,
			Message:  "Syncing " + string(p),
			Provider: p,
			Current:  i + 1,
			Total:    len(providers),
		})

		pr := e.projector.SyncProvider(p, items, projOpts)
		result.Providers = append(result.Providers, pr)
		for _, err := range pr.Errors() {
			result.Errors = append(result.Errors, &Error{Code: ErrCodeProvider, Provider: p, Err: err})
		}

		if !opts.DryRun && pr.Err == nil {
			synced := append(projector.Names(pr.Created()), projector.Names(pr.Skipped())...)
			e.manifest.SetProviderSyncState(string(p), manifest.ProviderSyncState{
				LastSync: e.now().UTC(),
				Method:   pr.Method,
				Items:    synced,
			})
		}
	}

	if !opts.DryRun && len(providers) > 0 {
		if err := e.manifest.Save(); err != nil {
			result.Errors = append(result.Errors, &Error{Code: ErrCodeSave, Err: err})
		}
	}
}

// selectProviders returns the enabled providers, or just only when it is
// set and enabled.
func (e *Engine) selectProviders(only model.Provider) []model.Provider {
	enabled := e.cfg.EnabledProviders()
	if only == "" {
		return enabled
	}
	for _, p := range enabled {
		if p == only {
			return []model.Provider{p}
		}
	}
	logging.Warn("provider is not enabled", logging.Provider(string(only)))
	return nil
}

// backfillFingerprints records fingerprints on entries that had none, so
// later passes can detect changes. These are not reported as updates.
func (e *Engine) backfillFingerprints(items []scanner.Item, names []string) {
	if len(names) == 0 {
		return
	}
	byName := make(map[string]scanner.Item, len(items))
	for _, item := range items {
		byName[item.Name] = item
	}
	for _, name := range names {
		entry, ok := e.manifest.Entry(name)
		item, found := byName[name]
		if !ok || !found {
			continue
		}
		entry.Fingerprint = item.Fingerprint
		if err := e.manifest.UpdateEntry(name, entry); err == nil {
			logging.Debug("recorded fingerprint", logging.Cognitive(name))
		}
	}
}

// backupManifest snapshots the manifest file before it is overwritten.
func (e *Engine) backupManifest() {
	if !e.cfg.Backup.Enabled || !util.PathExists(e.manifest.Path()) {
		return
	}
	if _, err := e.backups.Create(e.manifest.Path(), backup.Options{Kind: "manifest", Description: "before sync"}); err != nil {
		logging.Warn("manifest backup failed", logging.Err(err))
		return
	}
	cleanup := backup.DefaultCleanupOptions()
	if e.cfg.Backup.MaxBackups > 0 {
		cleanup.MaxBackups = e.cfg.Backup.MaxBackups
	}
	if _, err := e.backups.Cleanup(cleanup); err != nil {
		logging.Warn("backup cleanup failed", logging.Err(err))
	}
}

// splitEntries separates manifest entries covered by the pass filters from
// the rest. Entries outside the filters are neither compared nor orphaned.
func splitEntries(entries []manifest.Entry, opts Options) (inScope, outOfScope []manifest.Entry) {
	types := make(map[model.CognitiveType]bool, len(opts.Types))
	for _, t := range opts.Types {
		types[t] = true
	}
	categories := make(map[model.Category]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		categories[c] = true
	}

	for _, entry := range entries {
		typeOK := len(types) == 0 || types[entry.Type]
		categoryOK := len(categories) == 0 || categories[entry.Category]
		if typeOK && categoryOK {
			inScope = append(inScope, entry)
		} else {
			outOfScope = append(outOfScope, entry)
		}
	}
	return inScope, outOfScope
}
