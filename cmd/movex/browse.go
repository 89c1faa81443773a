package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieExplore/internal/config"
	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/debounce"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

// newBrowseCmd returns the "browse" subcommand. It is also the root default.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue interactively",
		Long: "Search and filter movies, open details, and follow cast and directors.\n" +
			"Press esc to go back, q or Ctrl+C to exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context())
		},
	}
}

// runBrowse starts the Bubble Tea catalogue browser.
func runBrowse(parent context.Context) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to the configured file.
	logOut, err := config.OpenLogFile(cfg.App.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logOut.Close() }()
	logger := config.SetupLogger(cfg.App.LogLevel, logOut)

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := newBrowseModel(ctx, newCatalog(cfg, logger), cfg, logger)
	defer m.debouncer.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// Messages delivered back to the browser.
type (
	moviesLoadedMsg struct {
		result listing.Result
	}
	genresLoadedMsg struct {
		genres []core.Genre
	}
	searchCommittedMsg struct {
		text string
	}
	movieLoadedMsg struct {
		token int
		view  detail.View[detail.Movie]
	}
	personLoadedMsg struct {
		token int
		view  detail.View[core.PersonWithMovies]
	}
)

type pageKind int

const (
	pageMovie pageKind = iota
	pagePerson
)

// route is a detail page on the navigation stack. token identifies the
// navigation that created it so late loads land on the right page.
type route struct {
	page   pageKind
	token  int
	id     int
	kind   core.PersonKind
	movie  detail.View[detail.Movie]
	person detail.View[core.PersonWithMovies]
	sel    int
}

// focus is the listing area receiving keys.
type focus int

const (
	focusSearch focus = iota
	focusGenres
	focusResults
)

// browseModel is the Bubble Tea model for the catalogue browser. The listing
// page is always at the bottom of the navigation stack.
type browseModel struct {
	ctx     context.Context
	catalog core.Catalog
	logger  *slog.Logger

	ctrl      *listing.Controller
	debouncer *debounce.Debouncer[string]
	commits   chan string

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	focus     focus
	resultSel int
	genreCur  int

	stack     []route
	nextToken int

	width  int
	height int
	ready  bool
}

// newBrowseModel creates a browser on the listing page.
func newBrowseModel(ctx context.Context, catalog core.Catalog, cfg *config.Config, logger *slog.Logger) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Prompt = "Search: "
	ti.CharLimit = 200
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	commits := make(chan string, 1)
	return browseModel{
		ctx:       ctx,
		catalog:   catalog,
		logger:    logger,
		ctrl:      listing.NewController(catalog, logger),
		debouncer: debounce.New(cfg.Debounce(), func(s string) { offerLatest(commits, s) }),
		commits:   commits,
		input:     ti,
		spinner:   s,
	}
}

// offerLatest puts s on a one-slot channel, replacing any unread value.
func offerLatest(ch chan string, s string) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Init starts the first movie fetch, the genre load and the search listener.
func (m browseModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadGenres(), m.waitForSearch()}
	if req, ok := m.ctrl.Start(); ok {
		cmds = append(cmds, m.fetchMovies(req), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and user input.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		if len(m.stack) > 0 {
			cmd = m.handleDetailKey(msg)
		} else {
			cmd = m.handleListingKey(msg)
		}
		cmds = append(cmds, cmd)

	case searchCommittedMsg:
		if req, ok := m.ctrl.CommitSearch(msg.text); ok {
			cmds = append(cmds, m.fetchMovies(req), m.spinner.Tick)
		}
		cmds = append(cmds, m.waitForSearch())

	case moviesLoadedMsg:
		if m.ctrl.Resolve(msg.result) {
			m.clampResults()
		}

	case genresLoadedMsg:
		m.ctrl.SetGenres(msg.genres)
		m.genreCur = min(m.genreCur, max(len(m.ctrl.Genres())-1, 0))

	case movieLoadedMsg:
		if r := m.routeByToken(msg.token); r != nil {
			r.movie = msg.view
		}

	case personLoadedMsg:
		if r := m.routeByToken(msg.token); r != nil {
			r.person = msg.view
		}

	case spinner.TickMsg:
		if m.loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if len(m.stack) == 0 && m.focus == focusSearch {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

// loading reports whether the visible page waits for data.
func (m browseModel) loading() bool {
	top := m.top()
	if top == nil {
		return m.ctrl.Loading()
	}
	switch top.page {
	case pageMovie:
		return top.movie.Phase() == detail.PhaseLoading
	default:
		return top.person.Phase() == detail.PhaseLoading
	}
}

// handleResize adjusts viewport and text input dimensions on terminal resize.
func (m *browseModel) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	if !m.ready {
		m.viewport = viewport.New(m.width, 1)
		m.ready = true
	} else {
		m.viewport.Width = m.width
	}
	m.input.Width = max(m.width-6, 10)
}

// refresh lays out the body viewport for the current page and keeps the
// selected row visible.
func (m *browseModel) refresh() {
	if !m.ready {
		return
	}
	header := m.headerView()
	bodyHeight := m.height - lipgloss.Height(header) - 1
	m.viewport.Height = max(bodyHeight, 1)

	content := m.bodyView()
	m.viewport.SetContent(content)
	if line := selectedLine(content); line >= 0 {
		switch {
		case line < m.viewport.YOffset:
			m.viewport.SetYOffset(line)
		case line >= m.viewport.YOffset+m.viewport.Height:
			m.viewport.SetYOffset(line - m.viewport.Height + 1)
		}
	}
}

// selectedLine returns the index of the first line carrying the selection
// cursor, or -1.
func selectedLine(content string) int {
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, cursorMark) {
			return i
		}
	}
	return -1
}

// View renders the current page: header, scrollable body, key help.
func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	vp := m.viewport
	vp.SetContent(m.bodyView())
	return m.headerView() + "\n" + vp.View() + "\n" + styleDim.Render(m.helpView())
}

func (m browseModel) headerView() string {
	if top := m.top(); top != nil {
		return m.detailHeaderView()
	}
	return m.listingHeaderView()
}

func (m browseModel) bodyView() string {
	if top := m.top(); top != nil {
		return m.detailBodyView(top)
	}
	return m.listingBodyView()
}

func (m browseModel) helpView() string {
	if top := m.top(); top != nil {
		return detailHelp(top)
	}
	return m.listingHelp()
}

func (m browseModel) top() *route {
	if len(m.stack) == 0 {
		return nil
	}
	return &m.stack[len(m.stack)-1]
}

func (m browseModel) routeByToken(token int) *route {
	for i := range m.stack {
		if m.stack[i].token == token {
			return &m.stack[i]
		}
	}
	return nil
}

// fetchMovies runs a listing request off the UI loop.
func (m browseModel) fetchMovies(req listing.Request) tea.Cmd {
	return func() tea.Msg {
		return moviesLoadedMsg{result: m.ctrl.Fetch(m.ctx, req)}
	}
}

func (m browseModel) loadGenres() tea.Cmd {
	return func() tea.Msg {
		return genresLoadedMsg{genres: m.ctrl.FetchGenres(m.ctx)}
	}
}

// waitForSearch delivers the next debounced search text.
func (m browseModel) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.commits:
			return searchCommittedMsg{text: s}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m browseModel) loadMovie(token, id int) tea.Cmd {
	return func() tea.Msg {
		return movieLoadedMsg{token: token, view: detail.MovieView(m.ctx, m.catalog, id)}
	}
}

func (m browseModel) loadPerson(token int, kind core.PersonKind, id int) tea.Cmd {
	return func() tea.Msg {
		return personLoadedMsg{token: token, view: detail.PersonView(m.ctx, m.catalog, kind, id)}
	}
}
