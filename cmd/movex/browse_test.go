package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/MovieExplore/internal/config"
	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/fixture"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// downCatalog fails every call.
type downCatalog struct{}

var errDown = errors.New("catalogue unavailable")

func (downCatalog) ListGenres(context.Context) ([]core.Genre, error) { return nil, errDown }

func (downCatalog) ListMovies(context.Context, string) ([]core.Movie, error) { return nil, errDown }

func (downCatalog) GetMovie(context.Context, int) (*core.Movie, error) { return nil, errDown }

func (downCatalog) ListReviews(context.Context, int) ([]core.Review, error) { return nil, errDown }

func (downCatalog) GetPerson(context.Context, core.PersonKind, int) (*core.PersonWithMovies, error) {
	return nil, errDown
}

func newTestBrowser(t *testing.T, catalog core.Catalog) browseModel {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Default()
	zero := 0
	cfg.Search.DebounceMS = &zero // deliver synchronously

	m := newBrowseModel(ctx, catalog, cfg, quietLogger())
	t.Cleanup(m.debouncer.Stop)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m browseModel, msg tea.Msg) browseModel {
	t.Helper()
	next, _ := updateCmd(t, m, msg)
	return next
}

func updateCmd(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(browseModel)
	if !ok {
		t.Fatalf("Update returned %T, want browseModel", next)
	}
	return bm, cmd
}

// collect runs cmd, expanding batches, and returns the first message of type T.
// Commands that block forever are left behind.
func collect[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	msgs := make(chan tea.Msg, 64)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			msgs <- msg
		}()
	}
	run(cmd)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if v, ok := msg.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("no %T produced", zero)
			return zero
		}
	}
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// started returns a browser whose initial movie and genre loads have settled.
// It skips Init so no stray search listener competes for debounced input.
func started(t *testing.T, catalog core.Catalog) browseModel {
	t.Helper()
	m := newTestBrowser(t, catalog)
	req, ok := m.ctrl.Start()
	if !ok {
		t.Fatal("Start should issue the first fetch")
	}
	m = update(t, m, moviesLoadedMsg{result: m.ctrl.Fetch(context.Background(), req)})
	return update(t, m, genresLoadedMsg{genres: m.ctrl.FetchGenres(context.Background())})
}

// settle runs the movie fetch carried by cmd and applies it.
func settle(t *testing.T, m browseModel, cmd tea.Cmd) browseModel {
	t.Helper()
	return update(t, m, collect[moviesLoadedMsg](t, cmd))
}

func TestBrowse_BeforeResize(t *testing.T) {
	m := newBrowseModel(context.Background(), fixture.NewStore(fixture.Seed()), config.Default(), quietLogger())
	defer m.debouncer.Stop()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestBrowse_InitialLoad(t *testing.T) {
	m := newTestBrowser(t, fixture.NewStore(fixture.Seed()))
	cmd := m.Init()
	if !m.ctrl.Loading() {
		t.Fatal("Init should start the first fetch")
	}
	if !strings.Contains(m.View(), "Loading movies") {
		t.Error("expected loading indicator while the first fetch runs")
	}

	m = update(t, m, collect[moviesLoadedMsg](t, cmd))
	if len(m.ctrl.Movies()) != 4 {
		t.Fatalf("movies = %d, want 4", len(m.ctrl.Movies()))
	}
	view := m.View()
	for _, want := range []string{"MovieExplore", "The Great Adventure", "Midnight Screams", "1 Title"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBrowse_TypingSearchesAfterFilterSelected(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))

	m, cmd := updateCmd(t, m, key(tea.KeyTab))
	if m.ctrl.Filter() != listing.FilterTitle {
		t.Fatalf("tab from no filter = %v, want title", m.ctrl.Filter())
	}
	m = settle(t, m, cmd)

	m = update(t, m, runes("dark"))
	if m.ctrl.SearchText() != "dark" {
		t.Errorf("SearchText = %q, want dark", m.ctrl.SearchText())
	}
	committed := collect[searchCommittedMsg](t, m.waitForSearch())
	if committed.text != "dark" {
		t.Fatalf("committed %q, want dark", committed.text)
	}

	m, cmd = updateCmd(t, m, committed)
	if got := m.ctrl.Query(); got != "title=dark" {
		t.Errorf("Query() = %q, want title=dark", got)
	}
	m = settle(t, m, cmd)
	movies := m.ctrl.Movies()
	if len(movies) != 1 || movies[0].Title != "Dark Drama" {
		t.Errorf("movies = %+v, want only Dark Drama", movies)
	}
}

func TestBrowse_NoMatchMessage(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))
	m, cmd := updateCmd(t, m, key(tea.KeyTab))
	m = settle(t, m, cmd)

	m = update(t, m, runes("zzz"))
	m, cmd = updateCmd(t, m, collect[searchCommittedMsg](t, m.waitForSearch()))
	m = settle(t, m, cmd)

	if !strings.Contains(m.View(), listing.NoMatchMessage) {
		t.Errorf("view should show %q", listing.NoMatchMessage)
	}
}

func TestBrowse_GenreChips(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))

	m = update(t, m, key(tea.KeyDown))
	if m.focus != focusResults {
		t.Fatalf("focus = %v, want results", m.focus)
	}
	m, cmd := updateCmd(t, m, runes("2"))
	if m.ctrl.Filter() != listing.FilterGenre {
		t.Fatalf("filter = %v, want genre", m.ctrl.Filter())
	}
	m = settle(t, m, cmd)

	m = update(t, m, key(tea.KeyUp))
	if m.focus != focusGenres {
		t.Fatalf("focus = %v, want genres", m.focus)
	}
	if !strings.Contains(m.View(), "[Action]") {
		t.Error("the first chip should carry the cursor")
	}

	m = update(t, m, key(tea.KeyRight))
	m, cmd = updateCmd(t, m, runes(" "))
	if !m.ctrl.Selected().Contains("Comedy") {
		t.Fatalf("selection = %v, want Comedy", m.ctrl.Selected().Names())
	}
	m = settle(t, m, cmd)
	movies := m.ctrl.Movies()
	if len(movies) != 1 || movies[0].Title != "Comedy Gold" {
		t.Errorf("movies = %+v, want only Comedy Gold", movies)
	}

	// Leaving the genre filter hides the chips and moves focus back to search.
	m = update(t, m, key(tea.KeyTab))
	if m.ctrl.Filter() != listing.FilterActor {
		t.Errorf("filter = %v, want actor", m.ctrl.Filter())
	}
	if m.focus != focusSearch {
		t.Errorf("focus = %v, want search", m.focus)
	}
}

func TestBrowse_MovieAndPersonNavigation(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))

	m = update(t, m, key(tea.KeyDown))
	m, cmd := updateCmd(t, m, key(tea.KeyEnter))
	if len(m.stack) != 1 || m.top().page != pageMovie || m.top().id != 1 {
		t.Fatalf("stack = %+v, want movie 1 on top", m.stack)
	}
	if !strings.Contains(m.View(), "Loading movie") {
		t.Error("expected movie loading indicator")
	}

	m = update(t, m, collect[movieLoadedMsg](t, cmd))
	view := m.View()
	for _, want := range []string{"The Great Adventure", "Director", "Jane Smith", "Cast", "Tom Hanks", "Reviews"} {
		if !strings.Contains(view, want) {
			t.Errorf("movie view missing %q", want)
		}
	}

	m = update(t, m, key(tea.KeyDown))
	m, cmd = updateCmd(t, m, key(tea.KeyEnter))
	if top := m.top(); top.page != pagePerson || top.kind != core.KindActors || top.id != 3 {
		t.Fatalf("top = %+v, want actor 3", top)
	}
	m = update(t, m, collect[personLoadedMsg](t, cmd))
	view = m.View()
	for _, want := range []string{"Actor", "Tom Hanks", "Filmography", "Midnight Screams"} {
		if !strings.Contains(view, want) {
			t.Errorf("person view missing %q", want)
		}
	}

	m = update(t, m, key(tea.KeyEsc))
	if len(m.stack) != 1 || m.top().movie.Phase() != detail.PhaseLoaded {
		t.Fatal("back should return to the loaded movie page")
	}
	m = update(t, m, key(tea.KeyEsc))
	if len(m.stack) != 0 {
		t.Fatal("second back should return to the listing")
	}
	if !strings.Contains(m.View(), "Discover Your Next Favorite Film") {
		t.Error("expected listing page")
	}
}

func TestBrowse_DirectorShortcut(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))
	cmd := m.openMovie(4)
	m = update(t, m, collect[movieLoadedMsg](t, cmd))

	m, cmd = updateCmd(t, m, runes("d"))
	top := m.top()
	if top.page != pagePerson || top.kind != core.KindDirectors || top.id != 1 {
		t.Fatalf("top = %+v, want director 1", top)
	}
	m = update(t, m, collect[personLoadedMsg](t, cmd))
	if !strings.Contains(m.View(), "Directed Films") {
		t.Error("director profile should use the directed films heading")
	}
}

func TestBrowse_LateLoadAfterBackIsDropped(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))
	cmd := m.openMovie(1)
	token := m.top().token
	m = update(t, m, key(tea.KeyEsc))

	late := collect[movieLoadedMsg](t, cmd)
	if late.token != token {
		t.Fatalf("token = %d, want %d", late.token, token)
	}
	m = update(t, m, late)
	if len(m.stack) != 0 {
		t.Error("a late load must not reopen a closed page")
	}
}

func TestBrowse_MovieNotFound(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))
	cmd := m.openMovie(99)
	m = update(t, m, collect[movieLoadedMsg](t, cmd))
	if !strings.Contains(m.View(), detail.MovieNotFoundMessage) {
		t.Errorf("view should show %q", detail.MovieNotFoundMessage)
	}
}

func TestBrowse_FailureShowsRetry(t *testing.T) {
	m := started(t, downCatalog{})
	if !m.ctrl.ShowRetry() {
		t.Fatal("failed first load should offer retry")
	}
	view := m.View()
	if !strings.Contains(view, listing.LoadFailedMessage) {
		t.Errorf("view should show %q", listing.LoadFailedMessage)
	}
	if !strings.Contains(view, "retry") {
		t.Error("view should mention retry")
	}

	m = update(t, m, key(tea.KeyCtrlR))
	if !m.ctrl.Loading() {
		t.Error("ctrl+r should reload")
	}
}

func TestBrowse_QuitKeys(t *testing.T) {
	m := started(t, fixture.NewStore(fixture.Seed()))

	_, cmd := updateCmd(t, m, key(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce QuitMsg")
	}

	// In the search box q is text, not a quit key.
	m = update(t, m, runes("q"))
	if m.input.Value() != "q" {
		t.Errorf("input = %q, want q", m.input.Value())
	}
}

func TestCycleFilter(t *testing.T) {
	tests := []struct {
		from listing.FilterType
		step int
		want listing.FilterType
	}{
		{listing.FilterNone, 1, listing.FilterTitle},
		{listing.FilterNone, -1, listing.FilterDirector},
		{listing.FilterTitle, 1, listing.FilterGenre},
		{listing.FilterDirector, 1, listing.FilterTitle},
		{listing.FilterTitle, -1, listing.FilterDirector},
	}
	for _, tt := range tests {
		m := newTestBrowser(t, fixture.NewStore(fixture.Seed()))
		m.ctrl.SetFilterType(tt.from)
		if got := m.cycleFilter(tt.step); got != tt.want {
			t.Errorf("cycleFilter(%v, %d) = %v, want %v", tt.from, tt.step, got, tt.want)
		}
	}
}

func TestOfferLatest(t *testing.T) {
	ch := make(chan string, 1)
	offerLatest(ch, "a")
	offerLatest(ch, "ab")
	if got := <-ch; got != "ab" {
		t.Errorf("got %q, want ab", got)
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected extra value %q", v)
	default:
	}
}

func TestSelectedLine(t *testing.T) {
	content := "header\n" + cursorBlank + "one\n" + cursorMark + "two\n"
	if got := selectedLine(content); got != 2 {
		t.Errorf("selectedLine = %d, want 2", got)
	}
	if got := selectedLine("nothing"); got != -1 {
		t.Errorf("selectedLine = %d, want -1", got)
	}
}
