package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieExplore/internal/config"
	"github.com/vadimtrunov/MovieExplore/internal/health"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the catalogue API is reachable",
		Long:  "Probe the configured catalogue API and the local fixture server and report their health.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if useFixture {
		fmt.Println(styleDim.Render("Using the built-in sample catalogue; nothing to probe."))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	checker := health.NewChecker(nil, stderrLogger(cfg))
	results := checker.CheckAll(ctx, statusTargets(cfg))

	fmt.Println(styleHeader.Render("Services"))
	for i, r := range results {
		fmt.Println(formatResult(i+1, r))
	}
	return nil
}

// statusTargets lists the endpoints the status command probes.
func statusTargets(cfg *config.Config) []health.Target {
	return []health.Target{
		{Name: "catalogue", URL: strings.TrimRight(cfg.API.BaseURL, "/") + "/genres/"},
		{Name: "fixture", URL: fmt.Sprintf("http://127.0.0.1:%d/healthz", cfg.Fixture.Port)},
	}
}

func formatResult(index int, r health.Result) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle := lipgloss.NewStyle().Bold(true)

	state := styleSuccess.Render("up")
	if !r.Healthy {
		state = styleError.Render("down")
	}

	line := fmt.Sprintf("%s %s  %s  %s  %s",
		label.Render(fmt.Sprintf("%d.", index)),
		nameStyle.Render(r.Name),
		state,
		label.Render(r.Latency.Round(time.Millisecond).String()),
		label.Render(sanitizeURL(r.Endpoint)),
	)
	if r.Error != "" {
		line += "\n   " + styleError.Render(r.Error)
	}
	return line
}
