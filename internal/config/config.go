// Package config provides configuration management for cognisync.
// A project is any directory holding a cognisync.yaml file; values from
// that file are merged over Default() and then over COGNISYNC_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/util"
)

// FileName is the name of the project configuration file.
const FileName = "cognisync.yaml"

// ManifestFileName is the manifest document inside the storage directory.
const ManifestFileName = "manifest.json"

// backupDirName lives inside the storage directory; the leading dot keeps it out of scans.
const backupDirName = ".backups"

// ErrNotFound is returned when no configuration file exists in a directory or its parents.
var ErrNotFound = errors.New("no " + FileName + " found")

// Config represents a cognisync project configuration.
type Config struct {
	// Name is an optional display name for the project
	Name string `yaml:"name,omitempty"`

	// Storage configures where the canonical store lives
	Storage StorageConfig `yaml:"storage"`

	// Providers configures each provider, keyed by provider name
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Sync configures default synchronization behavior
	Sync SyncConfig `yaml:"sync"`

	// Backup configures manifest backups taken before each save
	Backup BackupConfig `yaml:"backup"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// StorageConfig holds canonical store settings.
type StorageConfig struct {
	// Dir is the canonical store directory, relative to the project root
	Dir string `yaml:"dir"`
}

// ProviderConfig holds settings for a single provider.
type ProviderConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path overrides the provider root; empty means the provider's default root
	Path string `yaml:"path,omitempty"`
}

// SyncConfig holds synchronization defaults.
type SyncConfig struct {
	// Method is the preferred mirror method (symlink, copy)
	Method string `yaml:"method"`
	// Force replaces existing mirror targets
	Force bool `yaml:"force"`
}

// BackupConfig holds manifest backup settings.
type BackupConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxBackups int  `yaml:"max_backups"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: ".cognisync",
		},
		Providers: map[string]ProviderConfig{
			string(model.Claude): {Enabled: true},
		},
		Sync: SyncConfig{
			Method: string(model.MethodSymlink),
		},
		Backup: BackupConfig{
			Enabled:    true,
			MaxBackups: 5,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// FindNearestConfig walks up from start and returns the first directory
// that contains a configuration file.
func FindNearestConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", start, err)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, FileName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load loads the configuration of the project rooted at projectRoot.
// A missing configuration file yields the defaults.
func Load(projectRoot string) (*Config, error) {
	cfg, err := LoadFromPath(filepath.Join(projectRoot, FileName))
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// A providers section replaces the default set rather than merging into it.
	defaults := cfg.Providers
	cfg.Providers = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = defaults
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration into projectRoot.
func (c *Config) Save(projectRoot string) error {
	return c.SaveToPath(filepath.Join(projectRoot, FileName))
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Variables follow the pattern COGNISYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("COGNISYNC_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("COGNISYNC_SYNC_METHOD"); v != "" {
		c.Sync.Method = v
	}
	if v := os.Getenv("COGNISYNC_SYNC_FORCE"); v != "" {
		c.Sync.Force = parseBool(v)
	}
	if v := os.Getenv("COGNISYNC_BACKUP_ENABLED"); v != "" {
		c.Backup.Enabled = parseBool(v)
	}
	if v := os.Getenv("COGNISYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}

	// COGNISYNC_PROVIDERS=claude,cursor enables exactly the listed providers
	if v := os.Getenv("COGNISYNC_PROVIDERS"); v != "" {
		enabled := make(map[string]bool)
		for _, name := range strings.Split(v, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				enabled[name] = true
			}
		}
		for name, pc := range c.Providers {
			pc.Enabled = enabled[name]
			c.Providers[name] = pc
		}
		for name := range enabled {
			if _, ok := c.Providers[name]; !ok {
				c.Providers[name] = ProviderConfig{Enabled: true}
			}
		}
	}

	for _, p := range model.AllProviders() {
		key := "COGNISYNC_" + strings.ToUpper(string(p)) + "_PATH"
		if v := os.Getenv(key); v != "" {
			pc := c.Providers[string(p)]
			pc.Path = v
			c.Providers[string(p)] = pc
		}
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// EnabledProviders returns the enabled providers sorted by name.
// Names that are not built-in providers are returned as-is.
func (c *Config) EnabledProviders() []model.Provider {
	var providers []model.Provider
	for name, pc := range c.Providers {
		if pc.Enabled {
			providers = append(providers, model.Provider(strings.ToLower(name)))
		}
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// ProviderRoot returns the absolute root directory for a provider.
func (c *Config) ProviderRoot(projectRoot string, p model.Provider) string {
	if pc, ok := c.Providers[string(p)]; ok && pc.Path != "" {
		return util.ExpandPath(pc.Path, projectRoot)
	}
	if layout, ok := p.Layout(); ok {
		return filepath.Join(projectRoot, layout.Root)
	}
	return filepath.Join(projectRoot, "."+string(p))
}

// StoreRoot returns the canonical store directory.
func (c *Config) StoreRoot(projectRoot string) string {
	return util.ExpandPath(c.Storage.Dir, projectRoot)
}

// ManifestPath returns the manifest document path.
func (c *Config) ManifestPath(projectRoot string) string {
	return filepath.Join(c.StoreRoot(projectRoot), ManifestFileName)
}

// BackupDir returns the directory holding manifest backups.
func (c *Config) BackupDir(projectRoot string) string {
	return filepath.Join(c.StoreRoot(projectRoot), backupDirName)
}

// SyncMethod returns the configured sync method, falling back to symlink.
func (c *Config) SyncMethod() model.SyncMethod {
	m, err := model.ParseSyncMethod(c.Sync.Method)
	if err != nil {
		return model.MethodSymlink
	}
	return m
}
