package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by by-id lookups when the catalogue has no such record.
var ErrNotFound = errors.New("not found")

// Catalog defines the read-only catalogue API the explorer consumes.
type Catalog interface {
	// ListGenres returns the full genre vocabulary.
	ListGenres(ctx context.Context) ([]Genre, error)

	// ListMovies returns the movies matching an encoded listing query ("" lists everything).
	ListMovies(ctx context.Context, query string) ([]Movie, error)

	// GetMovie returns a single movie with director, cast and genres.
	GetMovie(ctx context.Context, id int) (*Movie, error)

	// ListReviews returns the reviews for a movie.
	ListReviews(ctx context.Context, movieID int) ([]Review, error)

	// GetPerson returns an actor or director together with their filmography.
	GetPerson(ctx context.Context, kind PersonKind, id int) (*PersonWithMovies, error)
}
