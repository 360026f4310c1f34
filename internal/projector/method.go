package projector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/model"
)

// CheckSymlinkSupport reports whether the host can create symlinks.
// Only Windows is probed, by creating and removing a throwaway link inside
// the store; every other platform is assumed to support them. The answer
// is computed once per Projector.
func (p *Projector) CheckSymlinkSupport() bool {
	p.probeOnce.Do(func() {
		p.symlinksOK = p.probeSymlinks()
		logging.Debug("symlink support checked", "supported", p.symlinksOK, "platform", p.goos)
	})
	return p.symlinksOK
}

func (p *Projector) probeSymlinks() bool {
	if p.goos != "windows" {
		return true
	}
	if err := os.MkdirAll(p.storeRoot, 0o750); err != nil {
		return false
	}
	probe := filepath.Join(p.storeRoot, fmt.Sprintf(".symlink-probe-%d", os.Getpid()))
	_ = os.Remove(probe)
	if err := p.symlink(".", probe); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

// decideMethod picks the mirror method for one projection. A symlink that
// had to fall back to a copy switches the Projector to copies for good.
func (p *Projector) decideMethod(opts Options) model.SyncMethod {
	if opts.Copy || p.linkFailed {
		return model.MethodCopy
	}
	if !p.CheckSymlinkSupport() {
		return model.MethodCopy
	}
	return model.MethodSymlink
}

// linkTarget returns the symlink contents for source as seen from target's
// parent directory, falling back to the absolute source path.
func linkTarget(source, target string) string {
	rel, err := filepath.Rel(filepath.Dir(target), source)
	if err != nil {
		return source
	}
	return rel
}
