package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/config"
	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/manifest"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/sync"
	"github.com/klauern/cognisync/internal/ui"
)

// projectDir returns the --project directory or the working directory.
func projectDir(cmd *cli.Command) (string, error) {
	dir := cmd.String("project")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	return filepath.Abs(dir)
}

// openProject loads the project named by --project, or the nearest project
// above the working directory. Without a configuration file the starting
// directory is used with default settings.
func openProject(cmd *cli.Command) (*manifest.Project, error) {
	start, err := projectDir(cmd)
	if err != nil {
		return nil, err
	}

	var p *manifest.Project
	if cmd.String("project") != "" {
		p, err = manifest.Open(start)
	} else {
		p, err = manifest.Discover(start)
		if errors.Is(err, config.ErrNotFound) {
			logging.Debug("no configuration found, using defaults", logging.Path(start))
			p, err = manifest.Open(start)
		}
	}
	if err != nil {
		return nil, err
	}

	applyOutputConfig(cmd, p.Config)
	logging.Debug("project opened", logging.Path(p.Root))
	return p, nil
}

// applyOutputConfig honours output settings from the configuration file
// unless a flag already decided.
func applyOutputConfig(cmd *cli.Command, cfg *config.Config) {
	if !cmd.Bool("no-color") {
		switch cfg.Output.Color {
		case "never":
			ui.DisableColors()
		case "always":
			ui.EnableColors()
		}
	}
}

func openEngine(cmd *cli.Command) (*sync.Engine, *manifest.Project, error) {
	p, err := openProject(cmd)
	if err != nil {
		return nil, nil, err
	}
	return sync.NewFromProject(p), p, nil
}

func parseTypes(values []string) ([]model.CognitiveType, error) {
	types := make([]model.CognitiveType, 0, len(values))
	for _, v := range values {
		t, err := model.ParseCognitiveType(v)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func parseCategories(values []string) []model.Category {
	categories := make([]model.Category, 0, len(values))
	for _, v := range values {
		categories = append(categories, model.NormalizeCategory(v))
	}
	return categories
}

func providerArg(cmd *cli.Command) (model.Provider, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s requires exactly 1 argument: <provider>", cmd.Name)
	}
	return model.ParseProvider(cmd.Args().First())
}
