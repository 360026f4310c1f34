package sync

import (
	"fmt"

	"github.com/klauern/cognisync/internal/model"
)

// ErrorCode classifies orchestrator errors.
type ErrorCode string

const (
	// ErrCodeScan means the canonical store could not be scanned. It is the
	// only error that ends a pass early.
	ErrCodeScan ErrorCode = "SCAN_FAILED"

	// ErrCodeApply means a single manifest action could not be applied.
	ErrCodeApply ErrorCode = "MANIFEST_APPLY_FAILED"

	// ErrCodeSave means the manifest could not be written.
	ErrCodeSave ErrorCode = "MANIFEST_SAVE_FAILED"

	// ErrCodeProvider means a provider projection reported a failure.
	ErrCodeProvider ErrorCode = "PROVIDER_SYNC_FAILED"
)

// Error is an error raised during a sync pass.
type Error struct {
	Code ErrorCode
	// Name is the cognitive the error relates to, if any.
	Name string
	// Provider is set for ErrCodeProvider.
	Provider model.Provider
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Provider != "":
		return fmt.Sprintf("%s [%s]: %v", e.Code, e.Provider, e.Err)
	case e.Name != "":
		return fmt.Sprintf("%s [%s]: %v", e.Code, e.Name, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
