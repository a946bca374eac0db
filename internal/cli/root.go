/*
Package cli implements the linlv command line.

Usage:

	linlv [command]

Available Commands:

	serve       Run the HTTP API
	search      Filter the catalog by category and keyword
	categories  List the catalog categories
	fav         List or toggle favorites
	ask         Ask the academic assistant one question
	version     Show version information
*/
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linlv/internal/config"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "linlv",
		Short: "Curated tourism and national park resource directory",
		Long: `linlv serves the LinLv resource directory: national park systems, industry
policy, academic research and career links, with favorites and an academic
assistant backed by Gemini.

Configuration comes from LINLV_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	newLogger := func(cfg *config.Config) logger.Logger {
		if verbose {
			return logger.New("debug", cfg.PrettyLog)
		}
		return logger.New("warn", cfg.PrettyLog)
	}

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewSearchCmd())
	root.AddCommand(NewCategoriesCmd())
	root.AddCommand(NewFavCmd(newLogger))
	root.AddCommand(NewAskCmd(newLogger))
	root.AddCommand(NewVersionCmd())

	return root
}
