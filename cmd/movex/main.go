package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configPath string
	useFixture bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "movex",
		Short: "Movie catalogue explorer",
		Long: "movex browses a movie catalogue: search by title, genre, actor or director,\n" +
			"open movie details with reviews, and follow cast and directors to their filmographies.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/movex.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&useFixture, "fixture", false, "use the built-in sample catalogue instead of the API")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newBrowseCmd(),
		newSearchCmd(),
		newMovieCmd(),
		newPersonCmd(),
		newGenresCmd(),
		newStatusCmd(),
		newFixtureCmd(),
		newBotCmd(),
		newMCPServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("movex v%s\n", version)
		},
	}
}
