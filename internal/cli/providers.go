package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/detector"
	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/projector"
	"github.com/klauern/cognisync/internal/ui"
)

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List supported providers and where they mirror each type",
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, err := openProject(cmd)
			if err != nil {
				return err
			}

			enabled := make(map[model.Provider]bool)
			for _, provider := range p.Config.EnabledProviders() {
				enabled[provider] = true
			}

			detected := make(map[model.Provider]detector.DetectedProvider)
			for _, d := range detector.DetectAll(p.Root) {
				detected[d.Provider] = d
			}

			w := out(cmd)
			for _, provider := range model.AllProviders() {
				layout, _ := provider.Layout()
				marker := ui.StatusSkipped(string(provider))
				if enabled[provider] {
					marker = ui.StatusSuccess(string(provider))
				}
				line := marker + " " + ui.Dim(p.Config.ProviderRoot(p.Root, provider))
				if d, ok := detected[provider]; ok {
					line += " " + ui.Info("detected: "+d.Source)
				}
				_, _ = fmt.Fprintln(w, line)

				dirs := make([]string, 0, len(layout.Dirs))
				for _, t := range model.AllCognitiveTypes() {
					dirs = append(dirs, fmt.Sprintf("%s→%s", t.Plural(), layout.Dirs[t]))
				}
				_, _ = fmt.Fprintf(w, "    %s\n", strings.Join(dirs, "  "))
			}
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check a provider for broken or orphaned mirrors",
		UsageText: "cognisync verify <provider>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			provider, err := providerArg(cmd)
			if err != nil {
				return err
			}
			engine, _, err := openEngine(cmd)
			if err != nil {
				return err
			}

			v, err := engine.VerifyProvider(provider)
			if err != nil {
				return err
			}

			w := out(cmd)
			printMirrors(w, "Broken", v.Broken)
			printMirrors(w, "Orphaned", v.Orphaned)
			summary := fmt.Sprintf("%s: %d valid, %d broken, %d orphaned",
				provider, len(v.Valid), len(v.Broken), len(v.Orphaned))
			if v.Healthy() {
				_, _ = fmt.Fprintln(w, ui.StatusSuccess(summary))
				return nil
			}
			_, _ = fmt.Fprintln(w, ui.StatusWarning(summary))
			_, _ = fmt.Fprintln(w, ui.Dim("Run cognisync clean "+string(provider)+" to remove them"))
			return nil
		},
	}
}

func printMirrors(w io.Writer, label string, mirrors []projector.Mirror) {
	if len(mirrors) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, ui.Header(label+":"))
	for _, m := range mirrors {
		_, _ = fmt.Fprintf(w, "  %s %s\n", ui.StatusError(m.Name), ui.Dim(m.Path+" → "+m.Target))
	}
}

func cleanCommand() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "Remove broken and orphaned mirrors from a provider",
		UsageText: "cognisync clean [--dry-run] <provider>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "List mirrors that would be removed",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			provider, err := providerArg(cmd)
			if err != nil {
				return err
			}
			engine, _, err := openEngine(cmd)
			if err != nil {
				return err
			}

			dryRun := cmd.Bool("dry-run")
			removed, cleanErr := engine.CleanProvider(provider, dryRun)

			w := out(cmd)
			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			for _, name := range removed {
				_, _ = fmt.Fprintln(w, "  "+ui.StatusRemoved(name))
			}
			if cleanErr != nil {
				return cleanErr
			}
			_, _ = fmt.Fprintln(w, ui.StatusSuccess(fmt.Sprintf("%s %d mirror(s) from %s", verb, len(removed), provider)))
			return nil
		},
	}
}
