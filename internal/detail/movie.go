package detail

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// Movie page messages.
const (
	MovieLoadFailedMessage = "Failed to load movie details. Please try again."
	MovieNotFoundMessage   = "Movie not found"
)

// Movie is everything the movie page shows.
type Movie struct {
	Movie   core.Movie    `json:"movie"`
	Reviews []core.Review `json:"reviews"`
}

// LoadMovie fetches the movie and its reviews concurrently and returns them
// together. The first failure cancels the other fetch and is returned.
func LoadMovie(ctx context.Context, catalog core.Catalog, id int) (*Movie, error) {
	var (
		movie   *core.Movie
		reviews []core.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := catalog.GetMovie(gctx, id)
		if err != nil {
			return err
		}
		movie = m
		return nil
	})
	g.Go(func() error {
		r, err := catalog.ListReviews(gctx, id)
		if err != nil {
			return err
		}
		reviews = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load movie page %d: %w", id, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("load movie page %d: %w", id, core.ErrNotFound)
	}
	if reviews == nil {
		reviews = []core.Review{}
	}
	return &Movie{Movie: *movie, Reviews: reviews}, nil
}

// MovieView loads the movie page and settles it into a page state.
func MovieView(ctx context.Context, catalog core.Catalog, id int) View[Movie] {
	m, err := LoadMovie(ctx, catalog, id)
	return Settle(m, err, MovieLoadFailedMessage)
}

// ReviewDate renders a review timestamp as a short month/day/year date.
// Unparseable timestamps are returned unchanged.
func ReviewDate(r core.Review) string {
	t, err := r.CreatedTime()
	if err != nil {
		return r.CreatedAt
	}
	return t.Format("1/2/2006")
}

// ReviewScore renders a review rating out of five, e.g. "4/5" or "3.5/5".
func ReviewScore(r core.Review) string {
	return fmt.Sprintf("%g/5", r.Rating)
}
