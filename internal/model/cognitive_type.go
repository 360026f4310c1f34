// Package model provides data types for cognisync.
package model

import (
	"fmt"
	"strings"
)

// CognitiveType represents how a cognitive is structured and synced.
type CognitiveType string

const (
	// TypeSkill is a folder-synced cognitive; its whole directory travels with it.
	TypeSkill CognitiveType = "skill"

	// TypeAgent is a single-file agent definition.
	TypeAgent CognitiveType = "agent"

	// TypePrompt is a single-file reusable prompt or slash command.
	TypePrompt CognitiveType = "prompt"

	// TypeWorkflow is a single-file multi-step workflow definition.
	TypeWorkflow CognitiveType = "workflow"

	// TypeTool is a single-file tool description.
	TypeTool CognitiveType = "tool"
)

// SyncMode describes how a cognitive type is mirrored into providers.
type SyncMode string

const (
	// SyncModeFolder mirrors the item's directory, assets included.
	SyncModeFolder SyncMode = "folder"
	// SyncModeFile mirrors only the item's primary file.
	SyncModeFile SyncMode = "file"
)

// canonical file names, keyed by type
var typeFileNames = map[CognitiveType]string{
	TypeSkill:    "SKILL.md",
	TypeAgent:    "AGENT.md",
	TypePrompt:   "PROMPT.md",
	TypeWorkflow: "WORKFLOW.yaml",
	TypeTool:     "TOOL.md",
}

// AllCognitiveTypes returns every cognitive type in detection priority order.
func AllCognitiveTypes() []CognitiveType {
	return []CognitiveType{TypeSkill, TypeAgent, TypePrompt, TypeWorkflow, TypeTool}
}

// IsValid returns true if the type is recognized.
func (t CognitiveType) IsValid() bool {
	_, ok := typeFileNames[t]
	return ok
}

// String returns the string representation of the type.
func (t CognitiveType) String() string {
	return string(t)
}

// Plural returns the directory name used for this type, e.g. "skills".
func (t CognitiveType) Plural() string {
	return string(t) + "s"
}

// FileName returns the canonical primary file name for the type.
func (t CognitiveType) FileName() string {
	return typeFileNames[t]
}

// SyncMode reports whether the type is synced as a folder or a single file.
func (t CognitiveType) SyncMode() SyncMode {
	if t == TypeSkill {
		return SyncModeFolder
	}
	return SyncModeFile
}

// Description returns a human-readable description of the type.
func (t CognitiveType) Description() string {
	switch t {
	case TypeSkill:
		return "Skill folder with instructions and optional assets"
	case TypeAgent:
		return "Agent definition with persona and capabilities"
	case TypePrompt:
		return "Reusable prompt or slash command"
	case TypeWorkflow:
		return "Multi-step workflow definition"
	case TypeTool:
		return "Tool description and usage contract"
	default:
		return "Unknown cognitive type"
	}
}

// ParseCognitiveType converts a string to a CognitiveType.
// Both singular and plural spellings are accepted, case-insensitively.
func ParseCognitiveType(s string) (CognitiveType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", fmt.Errorf("cognitive type cannot be empty")
	}

	t := CognitiveType(normalized)
	if t.IsValid() {
		return t, nil
	}

	t = CognitiveType(strings.TrimSuffix(normalized, "s"))
	if t.IsValid() {
		return t, nil
	}

	return "", fmt.Errorf("unknown cognitive type %q (valid: skill, agent, prompt, workflow, tool)", s)
}
