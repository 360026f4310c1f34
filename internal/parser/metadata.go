package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultVersion is used when neither the header nor the body carries a version.
const DefaultVersion = "1.0.0"

// Metadata is the typed view of a cognitive's front matter.
// Keys without a dedicated field are kept in Extra.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Category    string
	Tags        []string
	Author      string
	License     string
	Extra       map[string]any
}

var knownKeys = map[string]bool{
	"name": true, "version": true, "description": true, "category": true,
	"tags": true, "author": true, "license": true,
}

// ParseMetadata parses the front matter of content into Metadata.
// It never fails: a missing or invalid header gives an empty record,
// and the second return value carries the body text.
func ParseMetadata(content []byte) (Metadata, string) {
	split := SplitFrontmatter(content)
	if !split.HasFrontmatter() {
		return Metadata{}, split.Content
	}

	raw, err := DecodeFrontmatter(split.Frontmatter, split.Format)
	if err != nil {
		return Metadata{}, split.Content
	}
	return FromMap(raw), split.Content
}

// FromMap builds Metadata from a decoded header map.
func FromMap(raw map[string]any) Metadata {
	md := Metadata{
		Name:        scalar(raw["name"]),
		Version:     scalar(raw["version"]),
		Description: scalar(raw["description"]),
		Category:    scalar(raw["category"]),
		Tags:        stringList(raw["tags"]),
		Author:      scalar(raw["author"]),
		License:     scalar(raw["license"]),
	}
	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if md.Extra == nil {
			md.Extra = make(map[string]any)
		}
		md.Extra[k] = v
	}
	return md
}

// ExtraKeys returns the sorted keys of Extra.
func (m Metadata) ExtraKeys() []string {
	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// stringList accepts a list value or a comma separated string.
func stringList(v any) []string {
	var out []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := scalar(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

var (
	headingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)
	versionPattern = regexp.MustCompile(`\bv?(\d+\.\d+\.\d+(?:-[0-9A-Za-z.]+)?)\b`)
)

// FirstHeading returns the text of the first level-one markdown heading.
func FirstHeading(body string) string {
	m := headingPattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// FindVersion returns the first semver-shaped string in text, without a leading "v".
func FindVersion(text string) string {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// FirstNonEmpty returns the first candidate that yields a non-empty string.
// Candidates are evaluated lazily and in order.
func FirstNonEmpty(candidates ...func() string) string {
	for _, c := range candidates {
		if v := c(); v != "" {
			return v
		}
	}
	return ""
}
