package movieapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/httpclient"
)

const (
	// DefaultBaseURL is where the catalogue API listens in a local setup.
	DefaultBaseURL = "http://127.0.0.1:8000/api/v1"

	maxErrorBodyBytes = 4096
)

// Client implements core.Catalog over the catalogue REST API.
type Client struct {
	baseURL string
	http    *httpclient.Client
	logger  *slog.Logger
}

var _ core.Catalog = (*Client)(nil)

// New creates a catalogue client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, cfg httpclient.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(cfg, logger),
		logger:  logger,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListGenres fetches the genre vocabulary.
func (c *Client) ListGenres(ctx context.Context) ([]core.Genre, error) {
	var genres []core.Genre
	if err := c.get(ctx, "/genres/", "", &genres); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// ListMovies fetches /movies/ with an already encoded query string.
func (c *Client) ListMovies(ctx context.Context, query string) ([]core.Movie, error) {
	var movies []core.Movie
	if err := c.get(ctx, "/movies/", query, &movies); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if movies == nil {
		movies = []core.Movie{}
	}
	return movies, nil
}

// GetMovie fetches a single movie. A 404 or a null payload yields core.ErrNotFound.
func (c *Client) GetMovie(ctx context.Context, id int) (*core.Movie, error) {
	var movie *core.Movie
	if err := c.get(ctx, "/movies/"+strconv.Itoa(id), "", &movie); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	if movie == nil {
		return nil, fmt.Errorf("get movie %d: %w", id, core.ErrNotFound)
	}
	return movie, nil
}

// ListReviews fetches the reviews of one movie.
func (c *Client) ListReviews(ctx context.Context, movieID int) ([]core.Review, error) {
	q := url.Values{"movieId": {strconv.Itoa(movieID)}}
	var reviews []core.Review
	if err := c.get(ctx, "/reviews/", q.Encode(), &reviews); err != nil {
		return nil, fmt.Errorf("list reviews for movie %d: %w", movieID, err)
	}
	if reviews == nil {
		reviews = []core.Review{}
	}
	return reviews, nil
}

// GetPerson fetches an actor or director with their filmography.
func (c *Client) GetPerson(ctx context.Context, kind core.PersonKind, id int) (*core.PersonWithMovies, error) {
	var person *core.PersonWithMovies
	path := fmt.Sprintf("/%s/%d", kind, id)
	if err := c.get(ctx, path, "", &person); err != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind.Singular(), id, err)
	}
	if person == nil {
		return nil, fmt.Errorf("get %s %d: %w", kind.Singular(), id, core.ErrNotFound)
	}
	if person.Movies == nil {
		person.Movies = []core.Movie{}
	}
	return person, nil
}

// get issues a GET to baseURL+path?rawQuery and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path, rawQuery string, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalogue request", slog.String("url", u.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return core.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("catalogue API error %d: %s", resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
