package projector

import (
	"errors"
	"fmt"

	"github.com/klauern/cognisync/internal/model"
)

var (
	// ErrUnknownProvider is returned for providers without a directory layout.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrTargetExists is returned when a mirror path is occupied and force is not set.
	ErrTargetExists = errors.New("target already exists")
)

// MirrorError describes a failure to create or remove one mirror.
type MirrorError struct {
	Provider model.Provider
	Name     string
	Path     string
	Err      error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Name, e.Path, e.Err)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}
