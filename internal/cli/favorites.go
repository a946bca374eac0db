package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linlv/internal/app"
	"github.com/MrSnakeDoc/linlv/internal/config"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

// loggerFactory builds the logger for commands that touch the store or network.
type loggerFactory func(cfg *config.Config) logger.Logger

// NewFavCmd creates the 'fav' command group.
func NewFavCmd(newLogger loggerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "List or toggle favorites",
		Long:  `Favorites are stored in the backend selected by LINLV_STORE.`,
	}
	cmd.AddCommand(newFavListCmd(newLogger))
	cmd.AddCommand(newFavToggleCmd(newLogger))
	return cmd
}

func newFavListCmd(newLogger loggerFactory) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show favorite resources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			c, err := app.Bootstrap(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer c.Close()

			favs := c.Favorites.Current()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), favs.IDs())
			}

			out := cmd.OutOrStdout()
			if favs.Len() == 0 {
				fmt.Fprintln(out, "No favorites yet. Add one with 'linlv fav toggle <id>'.")
				return nil
			}
			fmt.Fprintf(out, "Favorites (%d):\n\n", favs.Len())
			for _, id := range favs.IDs() {
				if r, ok := c.Catalog.Record(id); ok {
					fmt.Fprintf(out, "  [%s] %s\n", id, r.Title)
				} else {
					fmt.Fprintf(out, "  [%s] (no longer in the catalog)\n", id)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func newFavToggleCmd(newLogger loggerFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Short:   "Add or remove a resource from favorites",
		Example: `  linlv fav toggle p2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			c, err := app.Bootstrap(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer c.Close()

			id := args[0]
			r, ok := c.Catalog.Record(id)
			if !ok {
				return fmt.Errorf("unknown resource %q", id)
			}

			next, err := c.Favorites.ToggleCurrent(cmd.Context(), id)
			if err != nil {
				return err
			}
			if next.Has(id) {
				fmt.Fprintf(cmd.OutOrStdout(), "★ added %s (%s)\n", id, r.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "☆ removed %s (%s)\n", id, r.Title)
			}
			return nil
		},
	}
}

