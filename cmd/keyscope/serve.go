package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/keyscope/internal/api"
)

var (
	serveHost string
	servePort int
)

// serveCmd creates the "serve" subcommand for the dashboard and API.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and REST API",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	logger := setupLogger(cfg)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(cfg, a.agg, logger)
	fmt.Printf("🔎 Keyscope dashboard on http://%s/\n", srv.Addr())
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
