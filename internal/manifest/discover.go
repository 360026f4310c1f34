package manifest

import (
	"fmt"

	"github.com/klauern/cognisync/internal/config"
)

// Project bundles a discovered project root with its configuration and manifest.
type Project struct {
	Root     string
	Config   *config.Config
	Manifest *Manifest
}

// Discover finds the nearest project above start, then loads its
// configuration and manifest.
func Discover(start string) (*Project, error) {
	root, err := config.FindNearestConfig(start)
	if err != nil {
		return nil, err
	}
	return Open(root)
}

// Open loads the configuration and manifest of the project at root.
func Open(root string) (*Project, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	m, err := Load(cfg.ManifestPath(root))
	if err != nil {
		return nil, err
	}

	return &Project{Root: root, Config: cfg, Manifest: m}, nil
}
