package progress

import (
	"io"

	"github.com/klauern/cognisync/internal/sync"
)

// SyncReporter advances a Bar on each sync phase.
type SyncReporter struct {
	bar   *Bar
	steps map[sync.Phase]int
}

// NewSyncReporter creates a reporter writing to w.
func NewSyncReporter(w io.Writer) *SyncReporter {
	phases := sync.AllPhases()
	steps := make(map[sync.Phase]int, len(phases))
	for i, p := range phases {
		steps[p] = i + 1
	}
	return &SyncReporter{
		bar:   New(Options{Max: int64(len(phases)), Description: "Syncing", Writer: w}),
		steps: steps,
	}
}

// Handle is a sync.ProgressFunc.
func (r *SyncReporter) Handle(e sync.ProgressEvent) {
	r.bar.Describe(e.Message)
	if step, ok := r.steps[e.Phase]; ok {
		// Syncing providers stays on its own step until the last provider starts.
		if e.Phase == sync.PhaseSyncingProviders && e.Current < e.Total {
			step--
		}
		_ = r.bar.Set(step)
	}
	if e.Phase == sync.PhaseComplete {
		_ = r.bar.Finish()
	}
}

// Func returns Handle as a sync.ProgressFunc.
func (r *SyncReporter) Func() sync.ProgressFunc {
	return r.Handle
}
