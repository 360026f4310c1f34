package model

import (
	"fmt"
	"strings"
)

// SyncMethod is how a mirror entry is materialized in a provider directory.
type SyncMethod string

const (
	// MethodSymlink links the mirror back into the canonical store.
	MethodSymlink SyncMethod = "symlink"
	// MethodCopy writes an independent copy of the item.
	MethodCopy SyncMethod = "copy"
)

// IsValid returns true if the method is recognized.
func (m SyncMethod) IsValid() bool {
	return m == MethodSymlink || m == MethodCopy
}

// String returns the string representation of the method.
func (m SyncMethod) String() string {
	return string(m)
}

// ParseSyncMethod converts a string to a SyncMethod. Empty input yields MethodSymlink.
func ParseSyncMethod(s string) (SyncMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MethodSymlink, nil
	}
	m := SyncMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown sync method %q (valid: symlink, copy)", s)
	}
	return m, nil
}
