package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
)

// openMovie pushes a movie page and starts loading it.
func (m *browseModel) openMovie(id int) tea.Cmd {
	m.nextToken++
	m.stack = append(m.stack, route{
		page:  pageMovie,
		token: m.nextToken,
		id:    id,
		movie: detail.Loading[detail.Movie](),
	})
	m.input.Blur()
	m.viewport.GotoTop()
	return tea.Batch(m.loadMovie(m.nextToken, id), m.spinner.Tick)
}

// openPerson pushes a profile page and starts loading it.
func (m *browseModel) openPerson(kind core.PersonKind, id int) tea.Cmd {
	m.nextToken++
	m.stack = append(m.stack, route{
		page:   pagePerson,
		token:  m.nextToken,
		id:     id,
		kind:   kind,
		person: detail.Loading[core.PersonWithMovies](),
	})
	m.input.Blur()
	m.viewport.GotoTop()
	return tea.Batch(m.loadPerson(m.nextToken, kind, id), m.spinner.Tick)
}

// back pops the current detail page. Loads still in flight for it are
// discarded when they arrive.
func (m *browseModel) back() {
	if len(m.stack) == 0 {
		return
	}
	m.stack = m.stack[:len(m.stack)-1]
	m.viewport.GotoTop()
	if len(m.stack) == 0 {
		m.setFocus(m.focus)
	}
}

// handleDetailKey dispatches a key on a movie or profile page.
func (m *browseModel) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	top := m.top()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "backspace", "b":
		m.back()
		return nil
	case "up", "k":
		if top.sel > 0 {
			top.sel--
		}
	case "down", "j":
		if top.sel < selectableRows(top)-1 {
			top.sel++
		}
	case "pgup":
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
	case "pgdown":
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
	case "d":
		if page := top.movie.Data(); top.page == pageMovie && page != nil {
			return m.openPerson(core.KindDirectors, page.Movie.Director.ID)
		}
	case "enter":
		return m.openSelected(top)
	}
	return nil
}

// openSelected follows the highlighted row: a person on a movie page, a
// movie on a profile page.
func (m *browseModel) openSelected(r *route) tea.Cmd {
	switch r.page {
	case pageMovie:
		page := r.movie.Data()
		if page == nil {
			return nil
		}
		if r.sel == 0 {
			return m.openPerson(core.KindDirectors, page.Movie.Director.ID)
		}
		if i := r.sel - 1; i < len(page.Movie.Actors) {
			return m.openPerson(core.KindActors, page.Movie.Actors[i].ID)
		}
	case pagePerson:
		p := r.person.Data()
		if p == nil || r.sel >= len(p.Movies) {
			return nil
		}
		return m.openMovie(p.Movies[r.sel].ID)
	}
	return nil
}

// selectableRows counts the rows a detail page lets the user pick.
func selectableRows(r *route) int {
	switch r.page {
	case pageMovie:
		if page := r.movie.Data(); page != nil {
			return 1 + len(page.Movie.Actors)
		}
	case pagePerson:
		if p := r.person.Data(); p != nil {
			return len(p.Movies)
		}
	}
	return 0
}

func (m browseModel) detailHeaderView() string {
	trail := styleDim.Render("MovieExplore")
	for _, item := range m.stack {
		trail += styleDim.Render(" › ") + crumb(item)
	}
	return trail + "\n"
}

// crumb names a route for the breadcrumb trail.
func crumb(r route) string {
	switch r.page {
	case pageMovie:
		if page := r.movie.Data(); page != nil {
			return page.Movie.Title
		}
		return "Movie"
	default:
		if p := r.person.Data(); p != nil {
			return p.FullName()
		}
		return r.kind.Label()
	}
}

func (m browseModel) detailBodyView(r *route) string {
	switch r.page {
	case pageMovie:
		if r.movie.Phase() == detail.PhaseLoading {
			return m.spinner.View() + styleDim.Render(" Loading movie...")
		}
		if s, settled := renderViewState(r.movie.Phase(), r.movie.Message(), detail.MovieNotFoundMessage); settled {
			return s + "\n\n" + styleInfo.Render("Press esc to go back")
		}
		return renderMoviePage(r.movie.Data(), r.sel, m.width)
	default:
		if r.person.Phase() == detail.PhaseLoading {
			return m.spinner.View() + styleDim.Render(" Loading "+r.kind.Singular()+"...")
		}
		if s, settled := renderViewState(r.person.Phase(), r.person.Message(), detail.PersonNotFoundMessage); settled {
			return s + "\n\n" + styleInfo.Render("Press esc to go back")
		}
		return renderPersonPage(r.kind, r.person.Data(), r.sel)
	}
}

func detailHelp(r *route) string {
	if r.page == pageMovie {
		return "↑/↓ select • enter open • d director • pgup/pgdn scroll • esc back • q quit"
	}
	return "↑/↓ select • enter open movie • pgup/pgdn scroll • esc back • q quit"
}
