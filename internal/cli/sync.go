package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/model"
	"github.com/klauern/cognisync/internal/progress"
	"github.com/klauern/cognisync/internal/projector"
	"github.com/klauern/cognisync/internal/sync"
	"github.com/klauern/cognisync/internal/ui"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Reconcile the manifest and mirror the store into providers",
		UsageText: "cognisync sync [options]",
		Description: `Scan the canonical store, update the manifest, then project every
   item into each enabled provider as a symlink (or copy).

   Examples:
     cognisync sync
     cognisync sync --dry-run
     cognisync sync --type skill --provider cursor --copy`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without modifying files",
			},
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Only sync these cognitive types",
			},
			&cli.StringSliceFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Only sync these categories",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Only project onto this provider",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy files instead of creating symlinks",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Replace existing mirrors",
			},
			&cli.BoolFlag{
				Name:  "manifest-only",
				Usage: "Update the manifest without touching providers",
			},
		},
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	opts, err := syncOptions(cmd)
	if err != nil {
		return err
	}

	engine, _, err := openEngine(cmd)
	if err != nil {
		return err
	}

	reporter := progress.NewSyncReporter(cmd.Root().ErrWriter)
	result, err := engine.Sync(ctx, opts, reporter.Func())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printSyncResult(out(cmd), result)
	if !result.Success() {
		return fmt.Errorf("sync finished with %d error(s)", len(result.Errors))
	}
	return nil
}

func syncOptions(cmd *cli.Command) (sync.Options, error) {
	opts := sync.Options{
		DryRun:       cmd.Bool("dry-run"),
		Categories:   parseCategories(cmd.StringSlice("category")),
		Copy:         cmd.Bool("copy"),
		Force:        cmd.Bool("force"),
		ManifestOnly: cmd.Bool("manifest-only"),
	}

	types, err := parseTypes(cmd.StringSlice("type"))
	if err != nil {
		return opts, err
	}
	opts.Types = types

	if p := cmd.String("provider"); p != "" {
		provider, err := model.ParseProvider(p)
		if err != nil {
			return opts, err
		}
		opts.Provider = provider
	}
	return opts, nil
}

func printSyncResult(w io.Writer, r *sync.Result) {
	if r.DryRun {
		_, _ = fmt.Fprintln(w, ui.Warning("Dry run - no changes made"))
	}

	if len(r.Actions) == 0 {
		_, _ = fmt.Fprintln(w, ui.StatusSuccess("Manifest up to date"))
	}
	for _, a := range r.Actions {
		label := fmt.Sprintf("%s %s", a.Name, ui.Dim("("+a.Reason+")"))
		switch a.Operation {
		case sync.OpAdd:
			_, _ = fmt.Fprintln(w, "  "+ui.StatusAdded(label))
		case sync.OpUpdate:
			_, _ = fmt.Fprintln(w, "  "+ui.StatusUpdated(label))
		case sync.OpRemove:
			_, _ = fmt.Fprintln(w, "  "+ui.StatusRemoved(label))
		}
	}
	for _, ie := range r.ScanErrors {
		_, _ = fmt.Fprintln(w, "  "+ui.StatusWarning(ie.Error()))
	}

	rows := []ui.Row{
		{Label: "Added", Value: fmt.Sprint(r.Added)},
		{Label: "Updated", Value: fmt.Sprint(r.Updated)},
		{Label: "Removed", Value: fmt.Sprint(r.Removed)},
		{Label: "Unchanged", Value: fmt.Sprint(r.Unchanged)},
		{Label: "Total", Value: fmt.Sprint(r.Total)},
	}
	for _, pr := range r.Providers {
		rows = append(rows, ui.Row{Label: ui.Title(string(pr.Provider)), Value: providerLine(pr)})
	}
	_, _ = fmt.Fprintln(w, ui.Box("Sync", rows))

	for _, err := range r.Errors {
		_, _ = fmt.Fprintln(w, ui.StatusError(err.Error()))
	}
}

func providerLine(pr *projector.ProviderResult) string {
	if pr.Err != nil {
		return ui.Error(pr.Err.Error())
	}
	return fmt.Sprintf("%d created, %d skipped, %d removed, %d failed (%s)",
		len(pr.Created()), len(pr.Skipped()), len(pr.Removed()), len(pr.Failed()), pr.Method)
}
