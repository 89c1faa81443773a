package fixture

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// MovieFilter mirrors the query parameters of GET /movies/.
type MovieFilter struct {
	Title       string
	Genres      []string
	Actor       string
	Director    string
	ReleaseYear int
}

// ParseMovieFilter reads a MovieFilter from query parameters.
func ParseMovieFilter(q url.Values) (MovieFilter, error) {
	f := MovieFilter{
		Title:    q.Get("title"),
		Genres:   q["genre"],
		Actor:    q.Get("actor"),
		Director: q.Get("director"),
	}
	if v := q.Get("release_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return MovieFilter{}, fmt.Errorf("release_year must be an integer: %q", v)
		}
		f.ReleaseYear = year
	}
	return f, nil
}

// Store is an in-memory catalogue. It implements core.Catalog, so it can
// stand in for the REST API directly.
type Store struct {
	mu        sync.RWMutex
	genres    []core.Genre
	actors    map[int]core.Person
	directors map[int]core.Person
	movies    []MovieRecord
	reviews   []core.Review
}

var _ core.Catalog = (*Store)(nil)

// NewStore indexes a dataset.
func NewStore(ds Dataset) *Store {
	s := &Store{
		genres:    slices.Clone(ds.Genres),
		actors:    make(map[int]core.Person, len(ds.Actors)),
		directors: make(map[int]core.Person, len(ds.Directors)),
		movies:    slices.Clone(ds.Movies),
		reviews:   slices.Clone(ds.Reviews),
	}
	for _, p := range ds.Actors {
		s.actors[p.ID] = p
	}
	for _, p := range ds.Directors {
		s.directors[p.ID] = p
	}
	slices.SortFunc(s.movies, func(a, b MovieRecord) int { return a.ID - b.ID })
	return s
}

// ListGenres returns the vocabulary.
func (s *Store) ListGenres(_ context.Context) ([]core.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.genres), nil
}

// ListMovies parses query like the REST endpoint does and returns the matches.
func (s *Store) ListMovies(_ context.Context, query string) ([]core.Movie, error) {
	q, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	f, err := ParseMovieFilter(q)
	if err != nil {
		return nil, err
	}
	return s.Movies(f), nil
}

// Movies returns the movies matching f, ordered by id. Text criteria match
// case-insensitive substrings; a movie matches the genre criterion when it
// has any of the requested genres.
func (s *Store) Movies(f MovieFilter) []core.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Movie{}
	for _, rec := range s.movies {
		if s.matches(rec, f) {
			out = append(out, s.assemble(rec))
		}
	}
	return out
}

// GetMovie returns one movie or core.ErrNotFound.
func (s *Store) GetMovie(_ context.Context, id int) (*core.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.movies {
		if rec.ID == id {
			m := s.assemble(rec)
			return &m, nil
		}
	}
	return nil, core.ErrNotFound
}

// ListReviews returns the reviews of a movie.
func (s *Store) ListReviews(_ context.Context, movieID int) ([]core.Review, error) {
	return s.Reviews(movieID, 0), nil
}

// Reviews returns reviews, optionally restricted to one movie (movieID > 0)
// and a minimum rating.
func (s *Store) Reviews(movieID int, minRating float64) []core.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []core.Review{}
	for _, r := range s.reviews {
		if movieID > 0 && r.MovieID != movieID {
			continue
		}
		if r.Rating < minRating {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GetPerson returns a person with their filmography or core.ErrNotFound.
func (s *Store) GetPerson(_ context.Context, kind core.PersonKind, id int) (*core.PersonWithMovies, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	people := s.actors
	if kind == core.KindDirectors {
		people = s.directors
	}
	p, ok := people[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	out := &core.PersonWithMovies{Person: p, Movies: []core.Movie{}}
	for _, rec := range s.movies {
		if kind == core.KindDirectors && rec.DirectorID == id ||
			kind == core.KindActors && slices.Contains(rec.ActorIDs, id) {
			out.Movies = append(out.Movies, s.assemble(rec))
		}
	}
	return out, nil
}

func (s *Store) matches(rec MovieRecord, f MovieFilter) bool {
	if f.Title != "" && !containsFold(rec.Title, f.Title) {
		return false
	}
	if f.ReleaseYear != 0 && rec.ReleaseYear != f.ReleaseYear {
		return false
	}
	if f.Director != "" && !nameMatches(s.directors[rec.DirectorID], f.Director) {
		return false
	}
	if f.Actor != "" && !slices.ContainsFunc(rec.ActorIDs, func(id int) bool {
		return nameMatches(s.actors[id], f.Actor)
	}) {
		return false
	}
	if len(f.Genres) > 0 && !slices.ContainsFunc(rec.GenreIDs, func(id int) bool {
		return slices.Contains(f.Genres, s.genreName(id))
	}) {
		return false
	}
	return true
}

func (s *Store) assemble(rec MovieRecord) core.Movie {
	m := core.Movie{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		ReleaseYear: rec.ReleaseYear,
		DirectorID:  rec.DirectorID,
		Director:    s.directors[rec.DirectorID],
		Actors:      []core.Person{},
		Genres:      []core.Genre{},
		Rating:      rec.Rating,
		Reviews:     []core.Review{},
	}
	if rec.ImageURL != "" {
		img := rec.ImageURL
		m.ImageURL = &img
	}
	for _, id := range rec.ActorIDs {
		if p, ok := s.actors[id]; ok {
			m.Actors = append(m.Actors, p)
		}
	}
	for _, id := range rec.GenreIDs {
		if name := s.genreName(id); name != "" {
			m.Genres = append(m.Genres, core.Genre{ID: id, Type: name})
		}
	}
	for _, r := range s.reviews {
		if r.MovieID == rec.ID {
			m.Reviews = append(m.Reviews, r)
		}
	}
	return m
}

func (s *Store) genreName(id int) string {
	for _, g := range s.genres {
		if g.ID == id {
			return g.Type
		}
	}
	return ""
}

func nameMatches(p core.Person, needle string) bool {
	return p.ID != 0 && (containsFold(p.FirstName, needle) || containsFold(p.LastName, needle))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
