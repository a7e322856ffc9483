package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// releaseRepository is where release binaries are published
const releaseRepository = "cleverdevil/nz"

func newUpdateCmd(a *app) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update nz to the latest release",
		Long: `Check GitHub releases for a newer version of nz and replace the running
binary with it. Development builds cannot be updated.`,
		Args:    usageArgs(cobra.NoArgs),
		PreRunE: a.initializeLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			current, err := semver.ParseTolerant(version)
			if err != nil {
				return fmt.Errorf("cannot update a development build (version %q)", version)
			}

			a.logger.Debug().Str("current", current.String()).Msg("Checking for updates")

			latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
			if err != nil {
				return fmt.Errorf("failed to detect latest release: %w", err)
			}
			if !found {
				fmt.Fprintln(out, "No release found for this platform.")
				return nil
			}

			if latest.LessOrEqual(current.String()) {
				fmt.Fprintf(out, "nz %s is up to date.\n", current)
				return nil
			}

			if checkOnly {
				fmt.Fprintf(out, "nz %s is available (running %s).\n", latest.Version(), current)
				return nil
			}

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}

			a.logger.Info().Str("version", latest.Version()).Str("asset", latest.AssetName).Msg("Downloading release")

			if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}

			fmt.Fprintf(out, "Updated nz to %s.\n", latest.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")

	return cmd
}
