package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		Args:    usageArgs(cobra.NoArgs),
		PreRunE: a.initializeLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			v := version
			if parsed, err := semver.ParseTolerant(version); err == nil {
				v = parsed.String()
			} else {
				v += " (development build)"
			}

			fmt.Fprintf(out, "nz %s\n", v)
			fmt.Fprintf(out, "built:   %s\n", buildTime)
			fmt.Fprintf(out, "go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
