package parser

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the front matter syntax.
type Format string

const (
	// FormatNone means no front matter block was found.
	FormatNone Format = ""
	// FormatYAML is a block delimited by "---".
	FormatYAML Format = "yaml"
	// FormatTOML is a block delimited by "+++".
	FormatTOML Format = "toml"
)

var (
	yamlDelim = []byte("---")
	tomlDelim = []byte("+++")
)

// FrontmatterResult contains the raw header and the remaining body.
type FrontmatterResult struct {
	// Frontmatter holds the header bytes with line endings normalized to \n.
	Frontmatter []byte
	// Content is everything after the closing delimiter.
	Content string
	// Format reports which delimiter opened the block.
	Format Format
}

// HasFrontmatter reports whether a header block was found.
func (r FrontmatterResult) HasFrontmatter() bool {
	return r.Format != FormatNone
}

// SplitFrontmatter extracts the header block from content.
// A block must start on the first line; an unterminated block is treated as body text.
func SplitFrontmatter(content []byte) FrontmatterResult {
	switch {
	case hasDelimLine(content, yamlDelim):
		return extractFrontmatter(content, yamlDelim, FormatYAML)
	case hasDelimLine(content, tomlDelim):
		return extractFrontmatter(content, tomlDelim, FormatTOML)
	default:
		return FrontmatterResult{Content: string(content)}
	}
}

func hasDelimLine(content, delim []byte) bool {
	if !bytes.HasPrefix(content, delim) {
		return false
	}
	rest := content[len(delim):]
	return bytes.HasPrefix(rest, []byte("\n")) || bytes.HasPrefix(rest, []byte("\r\n"))
}

func extractFrontmatter(content, delim []byte, format Format) FrontmatterResult {
	remaining := trimLineEnd(content[len(delim):])

	var header []byte
	bodyStart := -1

	if bytes.HasPrefix(remaining, delim) {
		// empty header: ---\n---
		header = []byte{}
		bodyStart = len(delim)
	} else {
		for _, sep := range [][]byte{[]byte("\n"), []byte("\r\n")} {
			closing := append(append([]byte{}, sep...), delim...)
			if idx := bytes.Index(remaining, closing); idx != -1 {
				header = remaining[:idx]
				bodyStart = idx + len(closing)
				break
			}
		}
	}

	if bodyStart < 0 {
		return FrontmatterResult{Content: string(content)}
	}

	header = bytes.ReplaceAll(header, []byte("\r\n"), []byte("\n"))
	header = bytes.TrimRight(header, "\r")

	body := trimLineEnd(remaining[bodyStart:])

	return FrontmatterResult{
		Frontmatter: header,
		Content:     string(body),
		Format:      format,
	}
}

func trimLineEnd(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("\r\n")) {
		return b[2:]
	}
	if bytes.HasPrefix(b, []byte("\n")) {
		return b[1:]
	}
	return b
}

// DecodeFrontmatter decodes a header block into a generic map.
func DecodeFrontmatter(header []byte, format Format) (map[string]any, error) {
	result := make(map[string]any)
	if len(bytes.TrimSpace(header)) == 0 {
		return result, nil
	}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(header, &result); err != nil {
			return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(header), &result); err != nil {
			return nil, fmt.Errorf("failed to parse TOML frontmatter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported frontmatter format %q", format)
	}

	// yaml.v3 leaves a nil map for documents that are only comments
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}
