package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linlv/internal/sources/catalogfile"
)

// NewCategoriesCmd creates the 'categories' command.
func NewCategoriesCmd() *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List the catalog categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := catalogfile.LoadCatalog(catalogFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range catalog.Categories() {
				fmt.Fprintf(out, "  %-10s %-20s %d resources\n", c.ID, c.Label, len(catalog.Records(c.ID)))
			}
			return nil
		},
	}
	catalogFlag(cmd, &catalogFile)

	return cmd
}
