// Package parser reads the front matter header of cognitive files.
//
// A header is a block at the very start of a file delimited by "---" (YAML)
// or "+++" (TOML) lines. Parsing is permissive: a missing or broken header
// yields an empty Metadata record rather than an error, so a single
// malformed file never blocks a scan.
package parser
