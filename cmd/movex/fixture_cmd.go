package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieExplore/internal/fixture"
)

// newFixtureCmd returns the "fixture" subcommand group for the sample API.
func newFixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Sample catalogue API for local development",
	}
	cmd.AddCommand(newFixtureServeCmd())
	return cmd
}

func newFixtureServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sample catalogue over HTTP",
		Long: "Serve the built-in sample catalogue with the same REST surface as the real API.\n" +
			"Point api.base_url at the printed URL to browse it.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runFixtureServe(port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

func runFixtureServe(port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Fixture.Port
	}

	logger := stderrLogger(cfg)
	srv := fixture.NewServer(port, fixture.NewStore(fixture.Seed()), logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		select {
		case <-srv.Ready():
			fmt.Println(styleSuccess.Render("✓ Serving sample catalogue at " + srv.BaseURL()))
		case <-ctx.Done():
		}
	}()

	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
