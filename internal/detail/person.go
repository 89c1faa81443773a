package detail

import (
	"context"
	"fmt"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// PersonNotFoundMessage is shown when the profile does not exist.
const PersonNotFoundMessage = "Person not found"

// PersonLoadFailedMessage returns the profile failure message for a collection.
func PersonLoadFailedMessage(kind core.PersonKind) string {
	return fmt.Sprintf("Failed to load %s details. Please try again.", kind)
}

// EmptyFilmographyMessage is shown for a person without movies.
func EmptyFilmographyMessage(kind core.PersonKind) string {
	return "No movies found for this " + kind.Singular()
}

// FilmographyHeading titles the movie list of a profile.
func FilmographyHeading(kind core.PersonKind) string {
	if kind == core.KindDirectors {
		return "Directed Films"
	}
	return "Filmography"
}

// PersonView loads a profile and settles it into a page state.
func PersonView(ctx context.Context, catalog core.Catalog, kind core.PersonKind, id int) View[core.PersonWithMovies] {
	p, err := catalog.GetPerson(ctx, kind, id)
	return Settle(p, err, PersonLoadFailedMessage(kind))
}
