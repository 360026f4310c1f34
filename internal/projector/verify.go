package projector

import (
	"errors"
	"fmt"

	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/util"
)

// Verification classifies the mirrors present in a provider root.
type Verification struct {
	Provider model.Provider
	Valid    []Mirror
	// Broken mirrors are symlinks whose target is gone.
	Broken []Mirror
	// Orphaned mirrors are symlinks pointing outside the store.
	Orphaned []Mirror
}

// Healthy returns true when no broken or orphaned mirrors were found.
func (v *Verification) Healthy() bool {
	return len(v.Broken) == 0 && len(v.Orphaned) == 0
}

// Total returns the number of mirrors inspected.
func (v *Verification) Total() int {
	return len(v.Valid) + len(v.Broken) + len(v.Orphaned)
}

// VerifyProvider inspects every mirror of a provider without changing anything.
// Copies always count as valid.
func (p *Projector) VerifyProvider(provider model.Provider) (*Verification, error) {
	layout, err := layoutFor(provider)
	if err != nil {
		return nil, err
	}

	mirrors, err := listMirrors(p.Root(provider), layout, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s mirrors: %w", provider, err)
	}

	v := &Verification{Provider: provider}
	for _, m := range mirrors {
		switch {
		case !m.Valid:
			v.Broken = append(v.Broken, m)
		case m.IsSymlink && !util.IsWithin(m.Target, p.storeRoot):
			v.Orphaned = append(v.Orphaned, m)
		default:
			v.Valid = append(v.Valid, m)
		}
	}
	return v, nil
}

// CleanProvider removes broken and orphaned mirrors and returns their names.
// With dryRun set nothing is removed. A failed removal does not stop the
// others; failures are joined into the returned error and the names of
// mirrors actually removed are still returned.
func (p *Projector) CleanProvider(provider model.Provider, dryRun bool) ([]string, error) {
	v, err := p.VerifyProvider(provider)
	if err != nil {
		return nil, err
	}

	stale := append(append([]Mirror{}, v.Broken...), v.Orphaned...)
	removed := make([]string, 0, len(stale))
	var errs []error
	for _, m := range stale {
		if !dryRun {
			if err := removeExisting(m.Path); err != nil {
				logging.Warn("failed to remove mirror", logging.Path(m.Path), logging.Err(err))
				errs = append(errs, &MirrorError{Provider: provider, Name: m.Name, Path: m.Path, Err: err})
				continue
			}
		}
		removed = append(removed, m.Name)
	}

	logging.Debug("provider cleaned",
		logging.Provider(string(provider)),
		logging.Count(len(removed)),
		"dry_run", dryRun)
	return removed, errors.Join(errs...)
}
