package sync

import "github.com/klauern/cognisync/internal/model"

// Phase is a step of a sync pass.
type Phase string

const (
	PhaseScanning         Phase = "scanning"
	PhaseComparing        Phase = "comparing"
	PhaseReconciling      Phase = "reconciling"
	PhaseSaving           Phase = "saving"
	PhaseSyncingProviders Phase = "syncing-providers"
	PhaseComplete         Phase = "complete"
)

// AllPhases returns the phases in the order a full pass emits them.
func AllPhases() []Phase {
	return []Phase{
		PhaseScanning,
		PhaseComparing,
		PhaseReconciling,
		PhaseSaving,
		PhaseSyncingProviders,
		PhaseComplete,
	}
}

// ProgressEvent reports a phase boundary.
type ProgressEvent struct {
	Phase   Phase
	Message string
	// Provider is set while syncing providers.
	Provider model.Provider
	// Current and Total count providers during PhaseSyncingProviders.
	Current int
	Total   int
}

// ProgressFunc receives progress events. It runs synchronously.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(e ProgressEvent) {
	if f != nil {
		f(e)
	}
}
