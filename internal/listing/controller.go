package listing

import (
	"context"
	"log/slog"
	"slices"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// User-facing listing messages.
const (
	LoadFailedMessage = "Failed to load movies. Please try again."
	NoMoviesMessage   = "No movies available"
	NoMatchMessage    = "No movies match your search or filters"
)

// Phase is the fetch state of the listing.
type Phase int

// Listing phases. Movies from the last successful fetch survive every phase.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "idle"
}

// Request is a movie fetch the caller must run, then hand back via Resolve.
type Request struct {
	Seq   uint64
	Query string
}

// Result is a settled movie fetch.
type Result struct {
	Seq    uint64
	Movies []core.Movie
	Err    error
}

// Controller owns the listing page state: search input, filter type, genre
// selection, vocabulary and the outcome of the latest movie fetch.
//
// State-changing methods are meant to be called from a single goroutine (the
// UI loop). Fetch and FetchGenres only read the catalog and may run anywhere.
type Controller struct {
	catalog core.Catalog
	logger  *slog.Logger

	started    bool
	searchText string
	debounced  string
	filter     FilterType
	selected   GenreSelection
	genres     []string

	phase   Phase
	movies  []core.Movie
	message string
	seq     uint64
}

// NewController creates an idle listing controller.
func NewController(catalog core.Catalog, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{catalog: catalog, logger: logger}
}

// Start activates the listing and returns the initial movie fetch.
// Only the first call returns a request.
func (c *Controller) Start() (Request, bool) {
	if c.started {
		return Request{}, false
	}
	c.started = true
	return c.issue()
}

// SetSearchText records the raw keystroke value. It never triggers a fetch.
func (c *Controller) SetSearchText(s string) {
	c.searchText = s
}

// CommitSearch applies the debounced search text.
func (c *Controller) CommitSearch(s string) (Request, bool) {
	if s == c.debounced {
		return Request{}, false
	}
	c.debounced = s
	return c.issue()
}

// SetFilterType switches the search dimension. Search text and genre
// selection are kept and become active again when their type is reselected.
func (c *Controller) SetFilterType(ft FilterType) (Request, bool) {
	if ft == c.filter {
		return Request{}, false
	}
	c.filter = ft
	return c.issue()
}

// ToggleGenre adds or removes a genre from the selection.
func (c *Controller) ToggleGenre(name string) (Request, bool) {
	c.selected = c.selected.Toggle(name)
	return c.issue()
}

// Reload re-issues the current query.
func (c *Controller) Reload() (Request, bool) {
	c.started = true
	return c.issue()
}

func (c *Controller) issue() (Request, bool) {
	if !c.started {
		return Request{}, false
	}
	c.seq++
	c.phase = PhaseLoading
	c.message = ""
	return Request{Seq: c.seq, Query: c.Query()}, true
}

// Fetch runs req against the catalog. It does not touch controller state.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	movies, err := c.catalog.ListMovies(ctx, req.Query)
	return Result{Seq: req.Seq, Movies: movies, Err: err}
}

// Resolve applies a settled fetch. Results of superseded requests are
// dropped so a slow older response cannot replace a newer one; the return
// value reports whether res was applied.
func (c *Controller) Resolve(res Result) bool {
	if res.Seq != c.seq {
		c.logger.Debug("dropping superseded movie fetch",
			slog.Uint64("seq", res.Seq),
			slog.Uint64("latest", c.seq),
		)
		return false
	}

	if res.Err != nil {
		c.logger.Error("failed to load movies",
			slog.String("query", c.Query()),
			slog.String("error", res.Err.Error()),
		)
		c.phase = PhaseFailed
		c.message = LoadFailedMessage
		return true
	}

	c.phase = PhaseLoaded
	c.message = ""
	c.movies = res.Movies
	if c.movies == nil {
		c.movies = []core.Movie{}
	}
	return true
}

// Run fetches req and resolves it in one step, for callers without a UI loop.
func (c *Controller) Run(ctx context.Context, req Request) bool {
	return c.Resolve(c.Fetch(ctx, req))
}

// FetchGenres loads the vocabulary. Failures are logged and yield nil so the
// listing keeps working without genre chips.
func (c *Controller) FetchGenres(ctx context.Context) []core.Genre {
	genres, err := c.catalog.ListGenres(ctx)
	if err != nil {
		c.logger.Warn("failed to load genres", slog.String("error", err.Error()))
		return nil
	}
	return genres
}

// SetGenres replaces the vocabulary, sorted by name.
func (c *Controller) SetGenres(genres []core.Genre) {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Type)
	}
	slices.Sort(names)
	c.genres = slices.Compact(names)
}

// LoadGenres fetches and stores the vocabulary synchronously.
func (c *Controller) LoadGenres(ctx context.Context) {
	c.SetGenres(c.FetchGenres(ctx))
}

// Query returns the query string for the current criteria.
func (c *Controller) Query() string {
	return Build(c.debounced, c.filter, c.selected.Names())
}

// Phase returns the fetch phase.
func (c *Controller) Phase() Phase { return c.phase }

// Loading reports whether a fetch is outstanding.
func (c *Controller) Loading() bool { return c.phase == PhaseLoading }

// Err returns the user-facing error of the latest fetch, or "".
func (c *Controller) Err() string { return c.message }

// Movies returns the result of the last successful fetch.
func (c *Controller) Movies() []core.Movie { return c.movies }

// SearchText returns the raw search input.
func (c *Controller) SearchText() string { return c.searchText }

// DebouncedText returns the search text the current query was built from.
func (c *Controller) DebouncedText() string { return c.debounced }

// Filter returns the active filter type.
func (c *Controller) Filter() FilterType { return c.filter }

// Selected returns the genre selection.
func (c *Controller) Selected() GenreSelection { return c.selected }

// Genres returns the sorted genre vocabulary.
func (c *Controller) Genres() []string { return c.genres }

// CriteriaActive reports whether any search text or genre selection is set.
func (c *Controller) CriteriaActive() bool {
	return c.debounced != "" || c.selected.Len() > 0
}

// ShowRetry reports whether the page should show only the error and a retry action.
func (c *Controller) ShowRetry() bool {
	return c.phase == PhaseFailed && len(c.movies) == 0
}

// EmptyMessage returns the message for a settled, empty result, or "".
func (c *Controller) EmptyMessage() string {
	if c.phase != PhaseLoaded || len(c.movies) > 0 {
		return ""
	}
	if c.CriteriaActive() {
		return NoMatchMessage
	}
	return NoMoviesMessage
}
