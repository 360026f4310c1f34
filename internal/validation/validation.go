// Package validation checks cognitive names and provider roots before
// mirrors are written.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/cognisync/internal/util"
)

// writeProbeName is the file created to test that a directory is writable.
const writeProbeName = ".cognisync-write-test"

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// ValidateName checks that name can be used as a single path element
// inside a provider directory.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &Error{Field: "name", Message: "name cannot be empty"}
	case name == "." || name == "..":
		return &Error{Field: "name", Message: fmt.Sprintf("%q is not a valid name", name)}
	case strings.ContainsAny(name, `/\`):
		return &Error{Field: "name", Message: fmt.Sprintf("name %q contains a path separator", name)}
	case strings.ContainsRune(name, 0):
		return &Error{Field: "name", Message: "name contains a NUL byte"}
	case util.IsHidden(name):
		return &Error{Field: "name", Message: fmt.Sprintf("name %q would create a hidden entry", name)}
	}
	return nil
}

// ValidateProviderRoot checks that mirrors can be written under root.
// A missing root is fine as long as its nearest existing ancestor is a
// writable directory.
func ValidateProviderRoot(root string) error {
	if root == "" {
		return &Error{Field: "provider root", Message: "path cannot be empty"}
	}

	path := root
	for {
		info, err := os.Stat(path)
		if err == nil {
			if !info.IsDir() {
				return &Error{
					Field:   "provider root",
					Message: fmt.Sprintf("path is not a directory: %s", path),
				}
			}
			break
		}
		if !os.IsNotExist(err) {
			return &Error{
				Field:   "provider root",
				Message: fmt.Sprintf("cannot access path: %s", path),
				Err:     err,
			}
		}
		parent := filepath.Dir(path)
		if parent == path {
			return &Error{Field: "provider root", Message: fmt.Sprintf("no existing parent for %s", root)}
		}
		path = parent
	}

	return validateWritable(path)
}

// validateWritable checks write permission by creating a temp file.
func validateWritable(dir string) error {
	testFile := filepath.Join(dir, writeProbeName)
	// #nosec G304 - testFile is constructed from a validated directory
	f, err := os.Create(testFile)
	if err != nil {
		return &Error{
			Field:   "write permission",
			Message: fmt.Sprintf("directory is not writable: %s", dir),
			Err:     err,
		}
	}
	_ = f.Close()
	_ = os.Remove(testFile)
	return nil
}
