package fixture

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"testing"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

func movieIDs(movies []core.Movie) []int {
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

func TestStore_ListMovies(t *testing.T) {
	store := NewStore(Seed())

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"everything", "", []int{1, 2, 3, 4}},
		{"title substring ignores case", "title=DRAMA", []int{3}},
		{"title with space", "title=great+adv", []int{1}},
		{"one genre", "genre=Comedy", []int{2}},
		{"any of several genres", "genre=Sci-Fi&genre=Horror", []int{1, 4}},
		{"actor first name", "actor=emma", []int{1, 2, 3}},
		{"actor last name", "actor=gosling", []int{1, 3}},
		{"director", "director=doe", []int{4}},
		{"release year", "release_year=2024", []int{2}},
		{"title and genre", "title=the&genre=Action", []int{1}},
		{"no match", "title=zzz", []int{}},
		{"unknown genre", "genre=Western", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := store.ListMovies(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := movieIDs(movies); !slices.Equal(got, tt.want) {
				t.Errorf("ListMovies(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestStore_ListMoviesBadYear(t *testing.T) {
	store := NewStore(Seed())
	if _, err := store.ListMovies(context.Background(), "release_year=soon"); err == nil {
		t.Fatal("expected error for non-numeric release_year")
	}
}

func TestParseMovieFilter(t *testing.T) {
	q := url.Values{
		"title":        {"x"},
		"genre":        {"Action", "Drama"},
		"release_year": {"1999"},
	}
	f, err := ParseMovieFilter(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Title != "x" || f.ReleaseYear != 1999 || !slices.Equal(f.Genres, []string{"Action", "Drama"}) {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestStore_GetMovieAssemblesRelations(t *testing.T) {
	store := NewStore(Seed())

	m, err := store.GetMovie(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Director.FullName() != "Jane Smith" {
		t.Errorf("director = %q", m.Director.FullName())
	}
	if len(m.Actors) != 3 || len(m.Reviews) != 2 {
		t.Errorf("got %d actors, %d reviews", len(m.Actors), len(m.Reviews))
	}
	if !slices.Equal(m.GenreNames(), []string{"Action", "Sci-Fi"}) {
		t.Errorf("genres = %v", m.GenreNames())
	}
	if m.ImageURL == nil || *m.ImageURL != "https://example.com/movie1.jpg" {
		t.Errorf("image = %v", m.ImageURL)
	}

	m3, _ := store.GetMovie(context.Background(), 3)
	if m3.ImageURL != nil {
		t.Errorf("movie 3 should have no image, got %q", *m3.ImageURL)
	}

	if _, err := store.GetMovie(context.Background(), 99); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Reviews(t *testing.T) {
	store := NewStore(Seed())

	if got := store.Reviews(1, 0); len(got) != 2 {
		t.Errorf("movie 1: got %d reviews, want 2", len(got))
	}
	if got := store.Reviews(1, 5); len(got) != 1 || got[0].ReviewerName != "Film Enthusiast" {
		t.Errorf("min rating 5: got %+v", got)
	}
	if got := store.Reviews(0, 0); len(got) != 3 {
		t.Errorf("all: got %d reviews, want 3", len(got))
	}
	got, err := store.ListReviews(context.Background(), 2)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("movie 2: got %v, %v; want empty non-nil slice", got, err)
	}
}

func TestStore_GetPerson(t *testing.T) {
	store := NewStore(Seed())

	tests := []struct {
		name   string
		kind   core.PersonKind
		id     int
		person string
		movies []int
	}{
		{"director with three films", core.KindDirectors, 2, "Jane Smith", []int{1, 2, 3}},
		{"director with one film", core.KindDirectors, 1, "John Doe", []int{4}},
		{"actor", core.KindActors, 5, "Ryan Gosling", []int{1, 3}},
		{"actor in everything but one", core.KindActors, 3, "Tom Hanks", []int{1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := store.GetPerson(context.Background(), tt.kind, tt.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.FullName() != tt.person {
				t.Errorf("name = %q, want %q", p.FullName(), tt.person)
			}
			if got := movieIDs(p.Movies); !slices.Equal(got, tt.movies) {
				t.Errorf("movies = %v, want %v", got, tt.movies)
			}
		})
	}
}

func TestStore_GetPersonWrongKind(t *testing.T) {
	store := NewStore(Seed())
	// id 2 is a director, not an actor.
	if _, err := store.GetPerson(context.Background(), core.KindActors, 2); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_EmptyFilmography(t *testing.T) {
	ds := Seed()
	ds.Actors = append(ds.Actors, core.Person{ID: 9, FirstName: "New", LastName: "Face", Age: 20})
	store := NewStore(ds)

	p, err := store.GetPerson(context.Background(), core.KindActors, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Movies == nil || len(p.Movies) != 0 {
		t.Errorf("expected empty non-nil filmography, got %v", p.Movies)
	}
}
