package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

// searchOptions are the flags of the search command.
type searchOptions struct {
	title    string
	actor    string
	director string
	genres   []string
}

// criteria maps the flags to a filter type and search text. At most one of
// the text dimensions and genres may be given.
func (o searchOptions) criteria() (listing.FilterType, string, error) {
	var (
		ft    = listing.FilterNone
		text  string
		given int
	)
	for _, c := range []struct {
		ft    listing.FilterType
		value string
	}{
		{listing.FilterTitle, o.title},
		{listing.FilterActor, o.actor},
		{listing.FilterDirector, o.director},
	} {
		if c.value != "" {
			ft, text = c.ft, c.value
			given++
		}
	}
	if len(o.genres) > 0 {
		ft = listing.FilterGenre
		given++
	}
	if given > 1 {
		return listing.FilterNone, "", errors.New("use only one of --title, --actor, --director, --genre")
	}
	return ft, text, nil
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List movies matching one filter",
		Long:  "List movies. Without flags every movie is listed; otherwise one filter dimension applies.",
		Example: `  movex search --title adventure
  movex search --genre Action --genre Drama
  movex search --director smith`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSearch(opts)
		},
	}
	cmd.Flags().StringVar(&opts.title, "title", "", "match movie titles")
	cmd.Flags().StringVar(&opts.actor, "actor", "", "match actor names")
	cmd.Flags().StringVar(&opts.director, "director", "", "match director names")
	cmd.Flags().StringSliceVar(&opts.genres, "genre", nil, "match any of these genres (repeatable)")
	return cmd
}

func runSearch(opts searchOptions) error {
	ft, text, err := opts.criteria()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	catalog := newCatalog(cfg, stderrLogger(cfg))
	return runFetch("movies", func(ctx context.Context) (string, error) {
		return searchOutput(ctx, catalog, ft, text, opts.genres)
	})
}

// searchOutput runs a single listing fetch and renders it the way the
// listing page would.
func searchOutput(ctx context.Context, catalog core.Catalog, ft listing.FilterType, text string, genres []string) (string, error) {
	query := listing.Build(text, ft, listing.NewGenreSelection(genres...).Names())
	movies, err := catalog.ListMovies(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%s: %w", listing.LoadFailedMessage, err)
	}

	var b strings.Builder
	b.WriteString(styleDim.Render("GET /movies/" + query))
	b.WriteString("\n\n")
	if len(movies) == 0 {
		if text != "" || len(genres) > 0 {
			b.WriteString(styleDim.Render(listing.NoMatchMessage))
		} else {
			b.WriteString(styleDim.Render(listing.NoMoviesMessage))
		}
		return b.String(), nil
	}
	b.WriteString(renderCards(movies, -1))
	return b.String(), nil
}

func newMovieCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "movie <id>",
		Short:   "Show a movie with its cast and reviews",
		Example: "  movex movie 1",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			catalog := newCatalog(cfg, stderrLogger(cfg))
			return runFetch("movie", func(ctx context.Context) (string, error) {
				return movieOutput(ctx, catalog, id)
			})
		},
	}
}

func movieOutput(ctx context.Context, catalog core.Catalog, id int) (string, error) {
	v := detail.MovieView(ctx, catalog, id)
	if msg, settled := viewStateMessage(v.Phase(), v.Message(), detail.MovieNotFoundMessage); settled {
		return "", errors.New(msg)
	}
	return renderMoviePage(v.Data(), -1, defaultWidth), nil
}

func newPersonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "person <actors|directors> <id>",
		Short: "Show an actor or director with their filmography",
		Example: `  movex person directors 2
  movex person actors 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			kind, err := core.ParsePersonKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			catalog := newCatalog(cfg, stderrLogger(cfg))
			return runFetch(kind.Singular(), func(ctx context.Context) (string, error) {
				return personOutput(ctx, catalog, kind, id)
			})
		},
	}
}

func personOutput(ctx context.Context, catalog core.Catalog, kind core.PersonKind, id int) (string, error) {
	v := detail.PersonView(ctx, catalog, kind, id)
	if msg, settled := viewStateMessage(v.Phase(), v.Message(), detail.PersonNotFoundMessage); settled {
		return "", errors.New(msg)
	}
	return renderPersonPage(kind, v.Data(), -1), nil
}

func newGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genre vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			catalog := newCatalog(cfg, stderrLogger(cfg))
			return runFetch("genres", func(ctx context.Context) (string, error) {
				return genresOutput(ctx, catalog)
			})
		},
	}
}

func genresOutput(ctx context.Context, catalog core.Catalog) (string, error) {
	genres, err := catalog.ListGenres(ctx)
	if err != nil {
		return "", fmt.Errorf("load genres: %w", err)
	}
	ctrl := listing.NewController(catalog, nil)
	ctrl.SetGenres(genres)
	return renderGenreChips(ctrl.Genres(), listing.GenreSelection{}, -1), nil
}

// parseID parses a positive record id.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
