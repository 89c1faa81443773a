package fixture

import "github.com/vadimtrunov/MovieExplore/internal/core"

// MovieRecord is a stored movie with its relations as ids.
type MovieRecord struct {
	ID          int
	Title       string
	Description string
	ReleaseYear int
	ImageURL    string
	DirectorID  int
	ActorIDs    []int
	GenreIDs    []int
	Rating      float64
}

// Dataset is the full content of a fixture catalogue.
type Dataset struct {
	Genres    []core.Genre
	Actors    []core.Person
	Directors []core.Person
	Movies    []MovieRecord
	Reviews   []core.Review
}

// Seed returns the small catalogue used for development and tests.
func Seed() Dataset {
	return Dataset{
		Genres: []core.Genre{
			{ID: 1, Type: "Action"},
			{ID: 2, Type: "Comedy"},
			{ID: 3, Type: "Drama"},
			{ID: 4, Type: "Horror"},
			{ID: 5, Type: "Sci-Fi"},
		},
		Directors: []core.Person{
			{ID: 1, FirstName: "John", LastName: "Doe", Age: 45},
			{ID: 2, FirstName: "Jane", LastName: "Smith", Age: 50},
		},
		Actors: []core.Person{
			{ID: 3, FirstName: "Tom", LastName: "Hanks", Age: 67},
			{ID: 4, FirstName: "Emma", LastName: "Stone", Age: 35},
			{ID: 5, FirstName: "Ryan", LastName: "Gosling", Age: 43},
		},
		Movies: []MovieRecord{
			{
				ID: 1, Title: "The Great Adventure", Description: "An epic journey through time and space.",
				ReleaseYear: 2025, ImageURL: "https://example.com/movie1.jpg",
				DirectorID: 2, ActorIDs: []int{3, 4, 5}, GenreIDs: []int{1, 5}, Rating: 85,
			},
			{
				ID: 2, Title: "Comedy Gold", Description: "A hilarious comedy for all ages.",
				ReleaseYear: 2024, ImageURL: "https://example.com/movie2.jpg",
				DirectorID: 2, ActorIDs: []int{3, 4}, GenreIDs: []int{2}, Rating: 72,
			},
			{
				ID: 3, Title: "Dark Drama", Description: "A gripping drama about life and loss.",
				ReleaseYear: 2023,
				DirectorID: 2, ActorIDs: []int{4, 5}, GenreIDs: []int{3}, Rating: 90,
			},
			{
				ID: 4, Title: "Midnight Screams", Description: "Nobody leaves the lighthouse after dark.",
				ReleaseYear: 2022,
				DirectorID: 1, ActorIDs: []int{3}, GenreIDs: []int{4}, Rating: 64,
			},
		},
		Reviews: []core.Review{
			{ID: 1, MovieID: 1, ReviewerName: "Movie Critic", Rating: 4,
				Comment: "Great movie with amazing performances!", CreatedAt: "2025-12-01T10:00:00Z"},
			{ID: 2, MovieID: 1, ReviewerName: "Film Enthusiast", Rating: 5,
				Comment: "A masterpiece of modern cinema.", CreatedAt: "2025-12-15T14:30:00Z"},
			{ID: 3, MovieID: 3, ReviewerName: "Movie Critic", Rating: 3.5,
				Comment: "Quietly devastating.", CreatedAt: "2025-11-20T09:15:00Z"},
		},
	}
}
