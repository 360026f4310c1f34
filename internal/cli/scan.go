package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/scanner"
	"github.com/klauern/cognisync/internal/ui"
)

// scanRecord is the JSON shape printed by scan --json.
type scanRecord struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Extra       []string `json:"extra,omitempty"`
	Path        string   `json:"path"`
	Fingerprint string   `json:"fingerprint"`
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List the cognitives found in the canonical store",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print items as JSON",
			},
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Only list these cognitive types",
			},
			&cli.StringSliceFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Only list these categories",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			types, err := parseTypes(cmd.StringSlice("type"))
			if err != nil {
				return err
			}
			p, err := openProject(cmd)
			if err != nil {
				return err
			}

			result, err := scanner.New(p.Config.StoreRoot(p.Root)).Scan(scanner.Options{
				Types:      types,
				Categories: parseCategories(cmd.StringSlice("category")),
			})
			if err != nil {
				return err
			}
			items, dups := scanner.Dedupe(result.Items, p.Manifest.Entries())
			itemErrors := append(result.Errors, dups...)

			w := out(cmd)
			if cmd.Bool("json") {
				records := make([]scanRecord, 0, len(items))
				for _, item := range items {
					records = append(records, scanRecord{
						Name:        item.Name,
						Type:        item.Type.String(),
						Category:    item.Category.String(),
						Version:     item.Version,
						Description: item.Description,
						Tags:        item.Metadata.Tags,
						Extra:       item.Metadata.ExtraKeys(),
						Path:        item.FilePath,
						Fingerprint: item.Fingerprint,
					})
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			if len(items) == 0 {
				_, _ = fmt.Fprintln(w, "No cognitives found in "+p.Config.StoreRoot(p.Root))
			}
			for _, item := range items {
				_, _ = fmt.Fprintf(w, "%-9s %-12s %s %s\n",
					item.Type, item.Category, ui.Bold(item.Name), ui.Dim(item.Version))
			}
			for _, ie := range itemErrors {
				_, _ = fmt.Fprintln(w, ui.StatusWarning(ie.Error()))
			}
			if len(items) > 0 {
				_, _ = fmt.Fprintln(w, ui.Box("Found", ui.TypeRows(scanner.CountByType(items))))
			}
			return nil
		},
	}
}
