package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

const (
	cursorMark   = "› "
	cursorBlank  = "  "
	defaultWidth = 80
)

func cursor(selected bool) string {
	if selected {
		return styleSelected.Render(cursorMark)
	}
	return cursorBlank
}

// renderCard renders a movie as a single listing row.
func renderCard(m core.Movie, selected bool) string {
	title := styleTitle.Render(m.Title)
	if selected {
		title = styleSelected.Render(m.Title)
	}
	var b strings.Builder
	b.WriteString(cursor(selected))
	b.WriteString(title)
	if m.ReleaseYear > 0 {
		b.WriteString(styleDim.Render(" (" + strconv.Itoa(m.ReleaseYear) + ")"))
	}
	b.WriteString("  ")
	b.WriteString(styleAccent.Render(fmt.Sprintf("★ %.1f", m.DisplayRating())))
	if names := m.GenreNames(); len(names) > 0 {
		b.WriteString("  ")
		b.WriteString(styleDim.Render(strings.Join(names, ", ")))
	}
	return b.String()
}

// renderCards renders a movie list with the row at sel highlighted. A
// negative sel highlights nothing.
func renderCards(movies []core.Movie, sel int) string {
	lines := make([]string, 0, len(movies))
	for i, m := range movies {
		lines = append(lines, renderCard(m, i == sel))
	}
	return strings.Join(lines, "\n")
}

// renderFilterBar renders the filter type selector.
func renderFilterBar(active listing.FilterType) string {
	parts := make([]string, 0, len(listing.FilterTypes()))
	for i, ft := range listing.FilterTypes() {
		label := fmt.Sprintf("%d %s", i+1, ft.Label())
		if ft == active {
			parts = append(parts, styleChipOn.Render(label))
		} else {
			parts = append(parts, styleChip.Render(label))
		}
	}
	return styleDim.Render("Filter ") + strings.Join(parts, " ")
}

// renderGenreChips renders the genre vocabulary with selected chips
// highlighted and the chip at cur marked. A negative cur marks nothing.
func renderGenreChips(genres []string, selected listing.GenreSelection, cur int) string {
	if len(genres) == 0 {
		return styleDim.Render("No genres available")
	}
	chips := make([]string, 0, len(genres))
	for i, g := range genres {
		label := g
		if i == cur {
			label = "[" + g + "]"
		}
		if selected.Contains(g) {
			chips = append(chips, styleChipOn.Render(label))
		} else {
			chips = append(chips, styleChip.Render(label))
		}
	}
	return strings.Join(chips, " ")
}

// renderMoviePage renders the movie detail page. Director and cast rows form
// one selectable list: index 0 is the director, 1..n the actors.
func renderMoviePage(page *detail.Movie, sel, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	m := page.Movie
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(styleHeader.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(styleAccent.Render(fmt.Sprintf("★ %.1f", m.DisplayRating())))
	if m.ReleaseYear > 0 {
		b.WriteString(styleDim.Render("  " + strconv.Itoa(m.ReleaseYear)))
	}
	b.WriteString("\n")
	if names := m.GenreNames(); len(names) > 0 {
		chips := make([]string, 0, len(names))
		for _, n := range names {
			chips = append(chips, styleChipOn.Render(n))
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}
	if m.Description != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Render(m.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleInfo.Render("Director"))
	b.WriteString("\n")
	b.WriteString(renderPersonRow(m.Director, sel == 0))
	b.WriteString("\n")

	if len(m.Actors) > 0 {
		b.WriteString("\n")
		b.WriteString(styleInfo.Render("Cast"))
		b.WriteString("\n")
		for i, a := range m.Actors {
			b.WriteString(renderPersonRow(a, sel == i+1))
			b.WriteString("\n")
		}
	}

	if len(page.Reviews) > 0 {
		b.WriteString("\n")
		b.WriteString(styleInfo.Render("Reviews"))
		b.WriteString("\n")
		for _, r := range page.Reviews {
			b.WriteString(cursorBlank)
			b.WriteString(styleTitle.Render(r.ReviewerName))
			b.WriteString("  ")
			b.WriteString(styleAccent.Render("★ " + detail.ReviewScore(r)))
			b.WriteString("  ")
			b.WriteString(styleDim.Render(detail.ReviewDate(r)))
			b.WriteString("\n")
			if r.Comment != "" {
				b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(len(cursorBlank)).Render(r.Comment))
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPersonRow(p core.Person, selected bool) string {
	name := p.FullName()
	if selected {
		name = styleSelected.Render(name)
	}
	row := cursor(selected) + name
	if p.Age > 0 {
		row += styleDim.Render(fmt.Sprintf("  age %d", p.Age))
	}
	return row
}

// renderPersonPage renders a profile with its filmography; sel highlights a movie.
func renderPersonPage(kind core.PersonKind, p *core.PersonWithMovies, sel int) string {
	var b strings.Builder
	b.WriteString(styleChipOn.Render(kind.Label()))
	b.WriteString("\n")
	b.WriteString(styleHeader.Render(p.FullName()))
	b.WriteString("\n")
	if p.Age > 0 {
		b.WriteString(styleAccent.Render(fmt.Sprintf("Age %d", p.Age)))
		b.WriteString("\n")
	}
	b.WriteString(styleDim.Render("Total Movies "))
	b.WriteString(styleAccent.Render(strconv.Itoa(len(p.Movies))))
	b.WriteString("\n\n")
	b.WriteString(styleInfo.Render(detail.FilmographyHeading(kind)))
	b.WriteString("\n")
	if len(p.Movies) == 0 {
		b.WriteString(styleDim.Render(detail.EmptyFilmographyMessage(kind)))
		return b.String()
	}
	b.WriteString(renderCards(p.Movies, sel))
	return b.String()
}

// viewStateMessage returns the text for the non-loaded phases of a by-id
// page. ok is false when the view is loaded and the caller should render data.
func viewStateMessage(phase detail.Phase, failMsg, notFoundMsg string) (string, bool) {
	switch phase {
	case detail.PhaseLoading:
		return "Loading...", true
	case detail.PhaseNotFound:
		return notFoundMsg, true
	case detail.PhaseFailed:
		return failMsg, true
	}
	return "", false
}

// renderViewState is viewStateMessage with styling applied.
func renderViewState(phase detail.Phase, failMsg, notFoundMsg string) (string, bool) {
	msg, ok := viewStateMessage(phase, failMsg, notFoundMsg)
	if !ok {
		return "", false
	}
	if phase == detail.PhaseLoading {
		return styleDim.Render(msg), true
	}
	return styleError.Render(msg), true
}
