package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/ccw/internal/mcpserver"
	"github.com/dshills/ccw/internal/server"
)

const shutdownTimeout = 10 * time.Second

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long:  "Serve POST /v1/analyze, GET /v1/modes and GET /health. The API is unauthenticated; keep it on localhost.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			fail(err)
			return nil
		}
		defer a.Close()

		srv := server.New(a.engine, a.registry, a.client, a.logger)
		a.logger.Info("listening", "addr", cfg.Server.Addr, "ollama", a.client.BaseURL(), "model", a.engine.Model())
		if err := server.ListenAndServe(ctx, cfg.Server.Addr, srv.Handler(), shutdownTimeout); err != nil {
			fail(fmt.Errorf("serving: %w", err))
		}
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools to an MCP client over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			fail(err)
			return nil
		}
		defer a.Close()

		if err := mcpserver.New(a.engine, a.registry).ServeStdio(); err != nil {
			fail(fmt.Errorf("serving mcp: %w", err))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8088)")
}
