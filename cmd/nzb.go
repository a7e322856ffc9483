package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/nz/newznab"
)

const noNFOMessage = "Release does not have an NFO file associated."

func newNZBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "nzb",
		Short:             "Commands for a particular NZB",
		PersistentPreRunE: a.initialize,
	}

	cmd.AddCommand(
		newDetailsCmd(a),
		newDownloadCmd(a),
		newNFOCmd(a),
	)

	return cmd
}

func newDetailsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "details GUID",
		Short: "Get details about a particular NZB",
		Args:  guidArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.client.Details(cmd.Context(), args[0])
			if err != nil {
				return handled(cmd, err)
			}

			out, err := a.formatter.FormatDetails(*item)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download GUID",
		Short: "Download the specified NZB",
		Long: `Download the NZB for GUID and write it to GUID.nzb. An existing file
with that name is overwritten.`,
		Args: guidArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			guid := args[0]

			raw, err := a.client.Download(cmd.Context(), guid)
			if err != nil {
				return err
			}

			filename := filepath.Join(outputDir, guid+".nzb")
			if err := writeFile(filename, raw.Body); err != nil {
				return err
			}

			a.logger.Info().Str("file", filename).Int("bytes", len(raw.Body)).Msg("Saved NZB")
			fmt.Fprintf(cmd.OutOrStdout(), "NZB has been downloaded to: %s\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to write the NZB to (default is the current directory)")

	return cmd
}

func newNFOCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nfo GUID",
		Short: "Print the NFO of the specified NZB",
		Args:  guidArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			nfo, err := a.client.NFO(cmd.Context(), args[0])
			if errors.Is(err, newznab.ErrNoNFO) {
				fmt.Fprintln(cmd.OutOrStdout(), noNFOMessage)
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, nfo)
			if !strings.HasSuffix(nfo, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

// guidArg requires exactly one GUID usable as a file name
func guidArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return &usageError{err: err}
	}

	guid := args[0]
	switch {
	case strings.TrimSpace(guid) == "":
		return usageErrorf("GUID must not be empty")
	case guid == "." || guid == "..", strings.ContainsAny(guid, `/\`):
		return usageErrorf("invalid GUID %q: pass the identifier shown by search, not a URL or path", guid)
	}
	return nil
}

func writeFile(name string, data []byte) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}
