// Package projector mirrors canonical store items into provider directories.
//
// A projection computes the wanted mirror set for a provider from the
// scanned items, compares it to the entries already present in the
// provider's type directories, removes orphaned or broken mirrors and
// creates the missing ones. Existing valid mirrors are left untouched, so
// running the same projection twice creates and removes nothing the second
// time.
//
// # Mirror methods
//
// Mirrors are relative symlinks back into the store by default. The method
// is decided once per projection:
//   - copy when the caller asks for it
//   - copy when the host cannot create symlinks (see CheckSymlinkSupport)
//   - symlink otherwise
//
// When a single symlink cannot be created the projector retries that one
// mapping as a copy, unless the caller asked for copies in the first place.
package projector
