package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/vadimtrunov/MovieExplore/internal/mcp"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout exposing the catalogue as tools.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// stdout carries the protocol, so logs stay on stderr.
			logger := stderrLogger(cfg)
			srv := mcpserver.NewServer(newCatalog(cfg, logger), logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
