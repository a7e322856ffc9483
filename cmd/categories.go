package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "categories",
		Short:             "Category related commands",
		PersistentPreRunE: a.initialize,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.client.Caps(cmd.Context())
			if err != nil {
				return handled(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatCategories(categories))
			return nil
		},
	})

	return cmd
}
