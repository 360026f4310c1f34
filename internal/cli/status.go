package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/sync"
	"github.com/klauern/cognisync/internal/ui"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether the store, manifest and providers agree",
		Action: func(_ context.Context, cmd *cli.Command) error {
			engine, p, err := openEngine(cmd)
			if err != nil {
				return err
			}

			status, err := engine.Status()
			if err != nil {
				return err
			}

			w := out(cmd)
			rows := []ui.Row{
				{Label: "Project", Value: p.Root},
				{Label: "Store", Value: p.Config.StoreRoot(p.Root)},
				{Label: "Manifest", Value: fmt.Sprintf("%d entries", status.ManifestEntries)},
			}
			if !status.LastUpdated.IsZero() {
				rows = append(rows, ui.Row{Label: "Updated", Value: status.LastUpdated.Local().Format(time.RFC822)})
			}
			rows = append(rows, ui.TypeRows(status.ByType)...)
			_, _ = fmt.Fprintln(w, ui.Box("Status", rows))

			printComparison(w, status)

			for _, provider := range status.Providers {
				ps, err := engine.ProviderStatus(provider)
				if err != nil {
					_, _ = fmt.Fprintln(w, ui.StatusError(err.Error()))
					continue
				}
				printProviderStatus(w, ps)
			}
			return nil
		},
	}
}

func printComparison(w io.Writer, s *sync.Status) {
	if s.InSync {
		_, _ = fmt.Fprintln(w, ui.StatusSuccess("Store and manifest in sync"))
	} else {
		_, _ = fmt.Fprintln(w, ui.StatusWarning("Store and manifest differ (run cognisync sync)"))
	}
	for _, item := range s.Comparison.New {
		_, _ = fmt.Fprintln(w, "  "+ui.StatusAdded(item.Name))
	}
	for _, item := range s.Comparison.Modified {
		_, _ = fmt.Fprintln(w, "  "+ui.StatusUpdated(item.Name))
	}
	for _, entry := range s.Comparison.Removed {
		_, _ = fmt.Fprintln(w, "  "+ui.StatusRemoved(entry.Name))
	}
	for _, name := range s.Comparison.Unverified {
		_, _ = fmt.Fprintln(w, "  "+ui.StatusSkipped(name+" (no fingerprint recorded)"))
	}
}

func printProviderStatus(w io.Writer, ps *sync.ProviderStatus) {
	v := ps.Verification
	line := fmt.Sprintf("%s: %d valid, %d broken, %d orphaned",
		ps.Provider, len(v.Valid), len(v.Broken), len(v.Orphaned))
	if ps.Synced {
		line += ui.Dim(fmt.Sprintf(" (last sync %s via %s)", ps.LastSync.Local().Format(time.RFC822), ps.Method))
	} else {
		line += ui.Dim(" (never synced)")
	}

	if ps.Healthy() {
		_, _ = fmt.Fprintln(w, ui.StatusSuccess(line))
	} else {
		_, _ = fmt.Fprintln(w, ui.StatusWarning(line))
	}
}
