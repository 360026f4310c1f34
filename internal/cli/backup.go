package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cognisync/internal/backup"
	"github.com/klauern/cognisync/internal/ui"
)

// manifestBackupKind groups manifest snapshots taken before a sync.
const manifestBackupKind = "manifest"

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Inspect and restore manifest backups",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List manifest backups, newest first",
				Action: func(_ context.Context, cmd *cli.Command) error {
					p, err := openProject(cmd)
					if err != nil {
						return err
					}
					backups, err := backup.NewStore(p.Config.BackupDir(p.Root)).List(manifestBackupKind)
					if err != nil {
						return err
					}

					w := out(cmd)
					if len(backups) == 0 {
						_, _ = fmt.Fprintln(w, "No backups found")
						return nil
					}
					for _, b := range backups {
						_, _ = fmt.Fprintf(w, "%s  %s  %6d bytes  %s\n",
							ui.Bold(b.ID), b.CreatedAt.Local().Format(time.RFC822), b.Size, ui.Dim(b.Description))
					}
					return nil
				},
			},
			{
				Name:      "restore",
				Usage:     "Restore the manifest from a backup",
				UsageText: "cognisync backup restore <id>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("restore requires exactly 1 argument: <id>")
					}
					id := cmd.Args().First()

					p, err := openProject(cmd)
					if err != nil {
						return err
					}
					target := p.Config.ManifestPath(p.Root)
					if err := backup.NewStore(p.Config.BackupDir(p.Root)).Restore(id, target); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(out(cmd), ui.StatusSuccess("Restored "+target+" from "+id))
					return nil
				},
			},
		},
	}
}
