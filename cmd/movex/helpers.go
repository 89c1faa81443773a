package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/MovieExplore/internal/catalog/cache"
	"github.com/vadimtrunov/MovieExplore/internal/catalog/movieapi"
	"github.com/vadimtrunov/MovieExplore/internal/config"
	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/fixture"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // gray
	styleAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // amber
	styleTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true) // white bold

	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true) // cyan bold
	styleChip     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	styleChipOn   = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214"))

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// loadConfig loads .env, then the configuration file. A missing file gives defaults.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// stderrLogger configures JSON logging to stderr for non-interactive commands.
func stderrLogger(cfg *config.Config) *slog.Logger {
	return config.SetupLogger(cfg.App.LogLevel, os.Stderr)
}

// newCatalog returns the catalogue the commands browse: the REST API behind
// an optional response cache, or the in-memory sample data when --fixture is set.
func newCatalog(cfg *config.Config, logger *slog.Logger) core.Catalog {
	if useFixture {
		logger.Info("using built-in sample catalogue")
		return fixture.NewStore(fixture.Seed())
	}
	logger.Info("catalogue API client initialized",
		slog.String("url", sanitizeURL(cfg.API.BaseURL)),
		slog.Duration("cache_ttl", cfg.CacheTTL()),
	)
	return cache.New(movieapi.New(cfg.API.BaseURL, cfg.HTTPClient(), logger), cfg.CacheTTL(), logger)
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
