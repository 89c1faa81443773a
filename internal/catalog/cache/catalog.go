// Package cache wraps a catalogue with short-lived response caching.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// Catalog is a core.Catalog that serves repeated reads from memory for ttl.
// Concurrent identical reads share one upstream call. Errors are never cached.
type Catalog struct {
	next   core.Catalog
	cache  *ttlCache
	group  singleflight.Group
	logger *slog.Logger
}

var _ core.Catalog = (*Catalog)(nil)

// New wraps next. A non-positive ttl returns next unchanged.
func New(next core.Catalog, ttl time.Duration, logger *slog.Logger) core.Catalog {
	if ttl <= 0 {
		return next
	}
	return newCatalog(next, ttl, logger)
}

func newCatalog(next core.Catalog, ttl time.Duration, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		next:   next,
		cache:  newTTLCache(ttl),
		logger: logger,
	}
}

// Purge drops every cached response.
func (c *Catalog) Purge() {
	c.cache.purge()
}

// ListGenres returns the cached vocabulary or fetches it.
func (c *Catalog) ListGenres(ctx context.Context) ([]core.Genre, error) {
	return load(ctx, c, "genres", func(ctx context.Context) ([]core.Genre, error) {
		return c.next.ListGenres(ctx)
	})
}

// ListMovies caches results per query string.
func (c *Catalog) ListMovies(ctx context.Context, query string) ([]core.Movie, error) {
	return load(ctx, c, "movies?"+query, func(ctx context.Context) ([]core.Movie, error) {
		return c.next.ListMovies(ctx, query)
	})
}

// GetMovie caches a movie by id.
func (c *Catalog) GetMovie(ctx context.Context, id int) (*core.Movie, error) {
	return load(ctx, c, "movie/"+strconv.Itoa(id), func(ctx context.Context) (*core.Movie, error) {
		return c.next.GetMovie(ctx, id)
	})
}

// ListReviews caches the reviews of a movie.
func (c *Catalog) ListReviews(ctx context.Context, movieID int) ([]core.Review, error) {
	return load(ctx, c, "reviews/"+strconv.Itoa(movieID), func(ctx context.Context) ([]core.Review, error) {
		return c.next.ListReviews(ctx, movieID)
	})
}

// GetPerson caches a profile by collection and id.
func (c *Catalog) GetPerson(ctx context.Context, kind core.PersonKind, id int) (*core.PersonWithMovies, error) {
	key := fmt.Sprintf("%s/%d", kind, id)
	return load(ctx, c, key, func(ctx context.Context) (*core.PersonWithMovies, error) {
		return c.next.GetPerson(ctx, kind, id)
	})
}

// load returns the cached value under key, or runs fetch once for all
// concurrent callers and caches a successful result. The shared fetch is
// detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func load[T any](ctx context.Context, c *Catalog, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.cache.get(key); ok {
		c.logger.Debug("catalogue cache hit", slog.String("key", key))
		return v.(T), nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.cache.set(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		if r.Shared {
			c.logger.Debug("catalogue fetch shared", slog.String("key", key))
		}
		return r.Val.(T), nil
	}
}
