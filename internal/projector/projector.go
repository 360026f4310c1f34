package projector

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/scanner"
	"github.com/klauern/cognisync/internal/util"
	"github.com/klauern/cognisync/internal/validation"
)

// RootFunc resolves the root directory of a provider.
type RootFunc func(model.Provider) string

// Options configures a single projection.
type Options struct {
	// Copy forces copies instead of symlinks. A failed copy is then final.
	Copy bool
	// Force replaces existing mirrors and occupied target paths.
	Force bool
	// DryRun reports what would change without touching the filesystem.
	DryRun bool
	// Types limits the provider directories considered. Empty means all.
	Types []model.CognitiveType
	// Preserve keeps mirrors that are absent from the item list but must
	// not be treated as orphans, such as items filtered out of this run.
	Preserve func(Key) bool
}

// Projector mirrors store items into provider directories.
type Projector struct {
	storeRoot string
	root      RootFunc
	symlink   func(oldname, newname string) error
	goos      string

	probeOnce  sync.Once
	symlinksOK bool
	// linkFailed is set once a symlink failed and its copy fallback
	// worked; later mirrors are copied directly.
	linkFailed bool
}

// Option configures a Projector.
type Option func(*Projector)

// WithSymlinkFunc replaces os.Symlink, mainly for tests.
func WithSymlinkFunc(fn func(oldname, newname string) error) Option {
	return func(p *Projector) {
		p.symlink = fn
	}
}

// WithPlatform overrides runtime.GOOS for the symlink capability probe.
func WithPlatform(goos string) Option {
	return func(p *Projector) {
		p.goos = goos
	}
}

// New creates a Projector for the store at storeRoot.
func New(storeRoot string, root RootFunc, opts ...Option) *Projector {
	if abs, err := filepath.Abs(storeRoot); err == nil {
		storeRoot = abs
	}
	p := &Projector{
		storeRoot: storeRoot,
		root:      root,
		symlink:   os.Symlink,
		goos:      runtime.GOOS,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StoreRoot returns the absolute canonical store path.
func (p *Projector) StoreRoot() string {
	return p.storeRoot
}

// Root returns the absolute root directory of a provider.
func (p *Projector) Root(provider model.Provider) string {
	root := p.root(provider)
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// layoutFor returns the provider's layout or ErrUnknownProvider.
func layoutFor(provider model.Provider) (model.ProviderLayout, error) {
	layout, ok := provider.Layout()
	if !ok {
		return model.ProviderLayout{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return layout, nil
}

// SyncProvider projects items onto a provider. Orphaned and broken mirrors,
// and links for wanted items that point outside the store, are removed
// first, then every missing mirror is created. Per-mirror
// failures are recorded in the result and never stop the pass.
func (p *Projector) SyncProvider(provider model.Provider, items []scanner.Item, opts Options) *ProviderResult {
	result := &ProviderResult{
		Provider: provider,
		DryRun:   opts.DryRun,
	}

	layout, err := layoutFor(provider)
	if err != nil {
		result.Err = err
		return result
	}
	result.Root = p.Root(provider)
	if !opts.DryRun {
		if err := validation.ValidateProviderRoot(result.Root); err != nil {
			result.Err = err
			return result
		}
	}
	result.Method = p.decideMethod(opts)

	done := logging.Timer("project " + string(provider))
	defer done()

	mappings := wantedMappings(result.Root, layout, filterItems(items, opts.Types))
	wanted := make(map[Key]bool, len(mappings))
	for _, mp := range mappings {
		wanted[mp.key()] = true
	}

	existing, err := listMirrors(result.Root, layout, opts.Types)
	if err != nil {
		result.Err = fmt.Errorf("failed to list %s mirrors: %w", provider, err)
		return result
	}

	current := make(map[Key]Mirror, len(existing))
	for _, m := range existing {
		orphan := !wanted[m.key()] && (opts.Preserve == nil || !opts.Preserve(m.key()))
		// A wanted key linked outside the store is replaced like a broken mirror.
		foreign := wanted[m.key()] && m.IsSymlink && !util.IsWithin(m.Target, p.storeRoot)
		if !orphan && !foreign && m.Valid {
			current[m.key()] = m
			continue
		}
		result.Mirrors = append(result.Mirrors, p.remove(provider, m, opts.DryRun))
	}

	for _, mp := range mappings {
		if _, ok := current[mp.key()]; ok && !opts.Force {
			result.Mirrors = append(result.Mirrors, MirrorResult{
				Name:   mp.item.Name,
				Type:   mp.item.Type,
				Path:   mp.target,
				Source: mp.source,
				Action: ActionSkipped,
				Method: result.Method,
			})
			continue
		}
		result.Mirrors = append(result.Mirrors, p.create(provider, mp, p.decideMethod(opts), opts))
	}
	if !opts.DryRun {
		result.Method = p.decideMethod(opts)
	}

	logging.Debug("provider projected",
		logging.Provider(string(provider)),
		logging.Method(string(result.Method)),
		"created", len(result.Created()),
		"skipped", len(result.Skipped()),
		"removed", len(result.Removed()),
		"failed", len(result.Failed()))

	return result
}

func filterItems(items []scanner.Item, types []model.CognitiveType) []scanner.Item {
	if len(types) == 0 {
		return items
	}
	allowed := make(map[model.CognitiveType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	filtered := make([]scanner.Item, 0, len(items))
	for _, item := range items {
		if allowed[item.Type] {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (p *Projector) remove(provider model.Provider, m Mirror, dryRun bool) MirrorResult {
	mr := MirrorResult{
		Name:   m.Name,
		Type:   m.Type,
		Path:   m.Path,
		Action: ActionRemoved,
	}
	if dryRun {
		return mr
	}
	if err := removeExisting(m.Path); err != nil {
		mr.Action = ActionFailed
		mr.Error = &MirrorError{Provider: provider, Name: m.Name, Path: m.Path, Err: err}
		return mr
	}
	logging.Debug("mirror removed", logging.Provider(string(provider)), logging.Cognitive(m.Name), "valid", m.Valid)
	return mr
}

func (p *Projector) create(provider model.Provider, mp mapping, method model.SyncMethod, opts Options) MirrorResult {
	mr := MirrorResult{
		Name:   mp.item.Name,
		Type:   mp.item.Type,
		Path:   mp.target,
		Source: mp.source,
		Action: ActionCreated,
		Method: method,
	}
	if opts.DryRun {
		return mr
	}

	used, err := p.materialize(mp, method, opts.Force)
	mr.Method = used
	if err != nil {
		mr.Action = ActionFailed
		mr.Error = &MirrorError{Provider: provider, Name: mp.item.Name, Path: mp.target, Err: err}
		return mr
	}
	logging.Debug("mirror created",
		logging.Provider(string(provider)),
		logging.Cognitive(mp.item.Name),
		logging.Method(string(used)),
		logging.Path(mp.target))
	return mr
}

// materialize writes one mirror and returns the method actually used.
func (p *Projector) materialize(mp mapping, method model.SyncMethod, force bool) (model.SyncMethod, error) {
	if err := os.MkdirAll(filepath.Dir(mp.target), 0o750); err != nil {
		return method, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Lstat(mp.target); err == nil {
		if !force {
			return method, ErrTargetExists
		}
		if err := removeExisting(mp.target); err != nil {
			return method, err
		}
	} else if !os.IsNotExist(err) {
		return method, fmt.Errorf("failed to stat target: %w", err)
	}

	if method == model.MethodCopy {
		return model.MethodCopy, p.copyMirror(mp)
	}

	linkErr := p.symlink(linkTarget(mp.source, mp.target), mp.target)
	if linkErr == nil {
		return model.MethodSymlink, nil
	}
	logging.Debug("symlink failed, falling back to copy", logging.Path(mp.target), logging.Err(linkErr))
	if err := p.copyMirror(mp); err != nil {
		return model.MethodCopy, fmt.Errorf("symlink failed: %v; copy fallback failed: %w", linkErr, err)
	}
	p.linkFailed = true
	return model.MethodCopy, nil
}

func (p *Projector) copyMirror(mp mapping) error {
	var err error
	if mp.item.Type.SyncMode() == model.SyncModeFolder {
		err = copyDir(mp.source, mp.target)
	} else {
		err = copyFile(mp.source, mp.target)
	}
	if err != nil {
		_ = removeExisting(mp.target)
	}
	return err
}
