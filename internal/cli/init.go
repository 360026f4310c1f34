package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/config"
	"github.com/klauern/cognisync/internal/detector"
	"github.com/klauern/cognisync/internal/logging"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/ui"
	"github.com/klauern/cognisync/internal/util"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create " + config.FileName + " and an empty store",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Providers to enable (default: those detected in the project, else claude)",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing configuration file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			root, err := projectDir(cmd)
			if err != nil {
				return err
			}

			path := filepath.Join(root, config.FileName)
			if util.PathExists(path) && !cmd.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			providers, err := initProviders(root, cmd.StringSlice("provider"))
			if err != nil {
				return err
			}
			cfg := config.Default()
			if len(providers) > 0 {
				cfg.Providers = make(map[string]config.ProviderConfig, len(providers))
				for _, provider := range providers {
					cfg.Providers[string(provider)] = config.ProviderConfig{Enabled: true}
				}
			}

			if err := cfg.Save(root); err != nil {
				return fmt.Errorf("failed to write configuration: %w", err)
			}
			store := cfg.StoreRoot(root)
			for _, t := range model.AllCognitiveTypes() {
				if err := os.MkdirAll(filepath.Join(store, t.Plural()), 0o750); err != nil {
					return fmt.Errorf("failed to create store: %w", err)
				}
			}

			w := out(cmd)
			_, _ = fmt.Fprintln(w, ui.StatusSuccess("Wrote "+path))
			_, _ = fmt.Fprintln(w, ui.StatusSuccess("Created store "+store))
			return nil
		},
	}
}

// initProviders returns the providers named on the command line, or the
// ones already present in the project.
func initProviders(root string, names []string) ([]model.Provider, error) {
	if len(names) == 0 {
		detected := detector.InProject(detector.DetectAll(root))
		for _, p := range detected {
			logging.Info("detected provider", logging.Provider(string(p)))
		}
		return detected, nil
	}

	providers := make([]model.Provider, 0, len(names))
	for _, name := range names {
		provider, err := model.ParseProvider(name)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	return providers, nil
}
