package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

// handleListingKey dispatches a key on the listing page.
func (m *browseModel) handleListingKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "tab":
		return m.setFilter(m.cycleFilter(1))
	case "shift+tab":
		return m.setFilter(m.cycleFilter(-1))
	case "ctrl+r":
		if m.ctrl.ShowRetry() {
			return m.reload()
		}
		return nil
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}

	switch key {
	case "q":
		return tea.Quit
	case "esc", "/":
		m.setFocus(focusSearch)
		return nil
	case "1", "2", "3", "4":
		return m.setFilter(listing.FilterTypes()[key[0]-'1'])
	case "r":
		if m.ctrl.ShowRetry() {
			return m.reload()
		}
		return nil
	}

	if m.focus == focusGenres {
		return m.handleGenreKey(key)
	}
	return m.handleResultKey(key)
}

func (m *browseModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.debouncer.Flush()
		m.setFocus(m.nextFocus(focusSearch))
		return nil
	case "down":
		m.setFocus(m.nextFocus(focusSearch))
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.ctrl.SetSearchText(v)
		m.debouncer.Set(v)
	}
	return cmd
}

func (m *browseModel) handleGenreKey(key string) tea.Cmd {
	genres := m.ctrl.Genres()
	switch key {
	case "left", "h":
		if m.genreCur > 0 {
			m.genreCur--
		}
	case "right", "l":
		if m.genreCur < len(genres)-1 {
			m.genreCur++
		}
	case " ", "space", "enter":
		if m.genreCur < len(genres) {
			if req, ok := m.ctrl.ToggleGenre(genres[m.genreCur]); ok {
				return tea.Batch(m.fetchMovies(req), m.spinner.Tick)
			}
		}
	case "up", "k":
		m.setFocus(focusSearch)
	case "down", "j":
		m.setFocus(m.nextFocus(focusGenres))
	}
	return nil
}

func (m *browseModel) handleResultKey(key string) tea.Cmd {
	movies := m.ctrl.Movies()
	switch key {
	case "up", "k":
		if m.resultSel > 0 {
			m.resultSel--
			return nil
		}
		if m.genresVisible() {
			m.setFocus(focusGenres)
		} else {
			m.setFocus(focusSearch)
		}
	case "down", "j":
		if m.resultSel < len(movies)-1 {
			m.resultSel++
		}
	case "home", "g":
		m.resultSel = 0
	case "end", "G":
		m.resultSel = max(len(movies)-1, 0)
	case "enter":
		if m.resultsVisible() && m.resultSel < len(movies) {
			return m.openMovie(movies[m.resultSel].ID)
		}
	}
	return nil
}

func (m *browseModel) setFilter(ft listing.FilterType) tea.Cmd {
	req, ok := m.ctrl.SetFilterType(ft)
	if m.focus == focusGenres && !m.genresVisible() {
		m.setFocus(focusSearch)
	}
	if !ok {
		return nil
	}
	return tea.Batch(m.fetchMovies(req), m.spinner.Tick)
}

// cycleFilter returns the filter type step positions away from the active
// one. No active type counts as the position before the first.
func (m *browseModel) cycleFilter(step int) listing.FilterType {
	types := listing.FilterTypes()
	cur := -1
	for i, ft := range types {
		if ft == m.ctrl.Filter() {
			cur = i
		}
	}
	if cur < 0 && step < 0 {
		cur = 0
	}
	n := len(types)
	return types[((cur+step)%n+n)%n]
}

func (m *browseModel) reload() tea.Cmd {
	req, ok := m.ctrl.Reload()
	if !ok {
		return nil
	}
	return tea.Batch(m.fetchMovies(req), m.spinner.Tick)
}

func (m *browseModel) setFocus(f focus) {
	m.focus = f
	if f == focusSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// nextFocus returns the area below from, skipping areas with nothing to select.
func (m *browseModel) nextFocus(from focus) focus {
	if from == focusSearch && m.genresVisible() && len(m.ctrl.Genres()) > 0 {
		return focusGenres
	}
	if m.resultsVisible() || m.ctrl.ShowRetry() {
		return focusResults
	}
	return from
}

func (m *browseModel) genresVisible() bool {
	return m.ctrl.Filter() == listing.FilterGenre
}

// resultsVisible reports whether the movie list is on screen.
func (m *browseModel) resultsVisible() bool {
	return !m.ctrl.Loading() && !m.ctrl.ShowRetry() && len(m.ctrl.Movies()) > 0
}

func (m *browseModel) clampResults() {
	m.resultSel = min(m.resultSel, max(len(m.ctrl.Movies())-1, 0))
	if m.focus == focusResults && !m.resultsVisible() && !m.ctrl.ShowRetry() {
		m.setFocus(focusSearch)
	}
}

func (m browseModel) listingHeaderView() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("MovieExplore"))
	b.WriteString(styleDim.Render("  Discover Your Next Favorite Film"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(renderFilterBar(m.ctrl.Filter()))
	if m.genresVisible() {
		cur := -1
		if m.focus == focusGenres {
			cur = m.genreCur
		}
		b.WriteString("\n")
		b.WriteString(renderGenreChips(m.ctrl.Genres(), m.ctrl.Selected(), cur))
	}
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) listingBodyView() string {
	switch {
	case m.ctrl.Loading():
		return m.spinner.View() + styleDim.Render(" Loading movies...")
	case m.ctrl.ShowRetry():
		return styleError.Render(m.ctrl.Err()) + "\n\n" + styleInfo.Render("Press r to retry")
	}
	if msg := m.ctrl.EmptyMessage(); msg != "" {
		return styleDim.Render(msg)
	}

	sel := -1
	if m.focus == focusResults {
		sel = m.resultSel
	}
	cards := renderCards(m.ctrl.Movies(), sel)
	if errMsg := m.ctrl.Err(); errMsg != "" {
		return styleError.Render(errMsg) + "\n\n" + cards
	}
	return cards
}

func (m browseModel) listingHelp() string {
	switch m.focus {
	case focusGenres:
		return "←/→ move • space toggle • ↑/↓ focus • tab filter • q quit"
	case focusResults:
		help := "↑/↓ select • enter open • 1-4 filter • / search • q quit"
		if m.ctrl.ShowRetry() {
			help += " • r retry"
		}
		return help
	}
	help := "type to search • tab filter • ↓ results • ctrl+c quit"
	if m.ctrl.ShowRetry() {
		help += " • ctrl+r retry"
	}
	return help
}
