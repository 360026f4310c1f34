package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := out(cmd)
			_, _ = fmt.Fprintf(w, "cognisync version %s\n", Version)
			_, _ = fmt.Fprintf(w, "  commit: %s\n", Commit)
			_, _ = fmt.Fprintf(w, "  built:  %s\n", BuildDate)
			_, _ = fmt.Fprintf(w, "  go:     %s\n", runtime.Version())
			return nil
		},
	}
}
