package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linlv/internal/app"
	"github.com/MrSnakeDoc/linlv/internal/config"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

// NewServeCmd creates the 'serve' command running the HTTP API.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the HTTP server exposing the catalog, favorites and assistant endpoints.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  LINLV_STORE=sqlite linlv serve
  LINLV_LISTEN_PORT=:9090 LINLV_GEMINI_API_KEY=... linlv serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			a, err := app.New(context.Background(), cfg, loggerClient)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			return a.Run()
		},
	}
}
