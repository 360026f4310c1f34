package model

import (
	"fmt"
	"sort"
	"strings"
)

// Provider identifies an AI tool that mirrors cognitives from the store.
type Provider string

const (
	Claude   Provider = "claude"
	OpenAI   Provider = "openai"
	Gemini   Provider = "gemini"
	Cursor   Provider = "cursor"
	Windsurf Provider = "windsurf"
	Copilot  Provider = "copilot"
)

// ProviderLayout describes where a provider expects each cognitive type.
type ProviderLayout struct {
	// Root is the provider directory relative to the project root.
	Root string
	// Dirs maps a cognitive type to its subdirectory under Root.
	Dirs map[CognitiveType]string
}

func defaultDirs(overrides map[CognitiveType]string) map[CognitiveType]string {
	dirs := make(map[CognitiveType]string, len(typeFileNames))
	for _, t := range AllCognitiveTypes() {
		dirs[t] = t.Plural()
	}
	for t, d := range overrides {
		dirs[t] = d
	}
	return dirs
}

var providerLayouts = map[Provider]ProviderLayout{
	Claude:   {Root: ".claude", Dirs: defaultDirs(map[CognitiveType]string{TypePrompt: "commands"})},
	OpenAI:   {Root: ".openai", Dirs: defaultDirs(nil)},
	Gemini:   {Root: ".gemini", Dirs: defaultDirs(map[CognitiveType]string{TypePrompt: "commands"})},
	Cursor:   {Root: ".cursor", Dirs: defaultDirs(map[CognitiveType]string{TypePrompt: "rules"})},
	Windsurf: {Root: ".windsurf", Dirs: defaultDirs(map[CognitiveType]string{TypeWorkflow: "workflows", TypePrompt: "rules"})},
	Copilot:  {Root: ".github", Dirs: defaultDirs(map[CognitiveType]string{TypeAgent: "chatmodes"})},
}

// IsValid returns true if the provider is recognized.
func (p Provider) IsValid() bool {
	_, ok := providerLayouts[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Layout returns the provider's directory layout.
// The second return value is false for unknown providers.
func (p Provider) Layout() (ProviderLayout, bool) {
	layout, ok := providerLayouts[p]
	return layout, ok
}

// AllProviders returns all supported providers, sorted by name.
func AllProviders() []Provider {
	providers := make([]Provider, 0, len(providerLayouts))
	for p := range providerLayouts {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// ParseProvider converts a string to a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p.IsValid() {
		return p, nil
	}
	names := make([]string, 0, len(providerLayouts))
	for _, known := range AllProviders() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown provider %q (valid: %s)", s, strings.Join(names, ", "))
}
