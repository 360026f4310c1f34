// Package detector finds which AI tools a project already uses.
// It looks at environment overrides, provider directories and the
// instruction files each tool leaves in a project.
package detector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/util"
)

// Detection sources, from most to least confident.
const (
	SourceEnv       = "env_var"
	SourceProject   = "project_dir"
	SourceIndicator = "indicator_file"
	SourceHome      = "user_home"
)

// ProjectConfidence is the lowest confidence that still points at the
// project itself rather than the user's machine.
const ProjectConfidence = 0.7

// DetectedProvider represents a detected provider with confidence level
type DetectedProvider struct {
	Provider   model.Provider
	Path       string  // Path that was detected
	Confidence float64 // 0.0-1.0, higher means more confident
	Source     string  // How it was detected
}

// indicators are files a tool keeps in the project root.
var indicators = map[model.Provider][]string{
	model.Claude:   {"CLAUDE.md"},
	model.OpenAI:   {"AGENTS.md"},
	model.Gemini:   {"GEMINI.md"},
	model.Cursor:   {".cursorrules"},
	model.Windsurf: {".windsurfrules"},
	model.Copilot:  {filepath.Join(".github", "copilot-instructions.md")},
}

// DetectAll scans projectRoot for every known provider and returns the
// detected ones in provider order.
func DetectAll(projectRoot string) []DetectedProvider {
	var detected []DetectedProvider
	for _, p := range model.AllProviders() {
		if result, found := DetectProvider(projectRoot, p); found {
			detected = append(detected, result)
		}
	}
	return detected
}

// DetectProvider checks whether a provider is in use for projectRoot.
func DetectProvider(projectRoot string, provider model.Provider) (DetectedProvider, bool) {
	layout, ok := provider.Layout()
	if !ok {
		return DetectedProvider{}, false
	}

	if envPath := os.Getenv(envVar(provider)); envPath != "" {
		path := util.ExpandPath(envPath, projectRoot)
		if util.PathExists(path) {
			return DetectedProvider{Provider: provider, Path: path, Confidence: 1.0, Source: SourceEnv}, true
		}
	}

	if path := filepath.Join(projectRoot, layout.Root); isDir(path) {
		return DetectedProvider{Provider: provider, Path: path, Confidence: 0.9, Source: SourceProject}, true
	}

	for _, name := range indicators[provider] {
		if path := filepath.Join(projectRoot, name); util.PathExists(path) {
			return DetectedProvider{Provider: provider, Path: path, Confidence: 0.8, Source: SourceIndicator}, true
		}
	}

	if home := util.HomeDir(); home != "" {
		if path := filepath.Join(home, layout.Root); isDir(path) {
			return DetectedProvider{Provider: provider, Path: path, Confidence: 0.5, Source: SourceHome}, true
		}
	}

	return DetectedProvider{}, false
}

// InProject keeps detections confident enough to describe projectRoot.
func InProject(detected []DetectedProvider) []model.Provider {
	var providers []model.Provider
	for _, d := range detected {
		if d.Confidence >= ProjectConfidence {
			providers = append(providers, d.Provider)
		}
	}
	return providers
}

// envVar returns the override variable for a provider root.
func envVar(provider model.Provider) string {
	return "COGNISYNC_" + strings.ToUpper(string(provider)) + "_PATH"
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
