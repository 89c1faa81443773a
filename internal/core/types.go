package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Genre is a single entry of the genre vocabulary.
type Genre struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Person is an actor or a director.
type Person struct {
	ID        int      `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Age       int      `json:"age"`
	ImageURL  ImageRef `json:"image_url"`
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PersonWithMovies is a person together with their filmography.
type PersonWithMovies struct {
	Person
	Movies []Movie `json:"movies"`
}

// Movie is a catalogue entry with its director, cast, genres and reviews.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ReleaseYear int      `json:"release_year"`
	ImageURL    *string  `json:"image_url"`
	DirectorID  int      `json:"director_id,omitempty"`
	Director    Person   `json:"director"`
	Actors      []Person `json:"actors"`
	Genres      []Genre  `json:"genres"`
	Rating      float64  `json:"rating"` // 0-100
	Reviews     []Review `json:"reviews"`
}

// DisplayRating returns the rating on a 0-10 scale.
func (m Movie) DisplayRating() float64 {
	return m.Rating / 10
}

// GenreNames returns the movie's genre names in API order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Type)
	}
	return names
}

// Review is a single user review of a movie. Rating is 0-5 by convention.
type Review struct {
	ID           int     `json:"id"`
	MovieID      int     `json:"movie_id"`
	ReviewerName string  `json:"reviewer_name"`
	Rating       float64 `json:"rating"`
	Comment      string  `json:"comment"`
	CreatedAt    string  `json:"created_at"`
}

// CreatedTime parses CreatedAt. Timestamps without a zone are read as UTC.
func (r Review) CreatedTime() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999999999", r.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", r.CreatedAt, err)
	}
	return t, nil
}

// ImageRef holds an image reference that the API sends as a string, a number or null.
type ImageRef string

// UnmarshalJSON accepts a JSON string, number or null.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ImageRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("image_url must be a string, number or null: %w", err)
	}
	*r = ImageRef(n.String())
	return nil
}

// MarshalJSON writes null for an empty reference.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// String returns the reference, or "" when absent.
func (r ImageRef) String() string { return string(r) }

// PersonKind selects the people collection: actors or directors.
type PersonKind string

// Person collections.
const (
	KindActors    PersonKind = "actors"
	KindDirectors PersonKind = "directors"
)

// ParsePersonKind parses a collection name. Empty input means actors.
func ParsePersonKind(s string) (PersonKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "actor", "actors":
		return KindActors, nil
	case "director", "directors":
		return KindDirectors, nil
	}
	return "", fmt.Errorf("unknown person type %q (want actors or directors)", s)
}

// Singular returns "actor" or "director".
func (k PersonKind) Singular() string {
	if k == KindDirectors {
		return "director"
	}
	return "actor"
}

// Label returns "Actor" or "Director".
func (k PersonKind) Label() string {
	if k == KindDirectors {
		return "Director"
	}
	return "Actor"
}
