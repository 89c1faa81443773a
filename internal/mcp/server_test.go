package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/fixture"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

// failingCatalog implements core.Catalog with every call failing.
type failingCatalog struct{ err error }

func (f failingCatalog) ListGenres(context.Context) ([]core.Genre, error) { return nil, f.err }

func (f failingCatalog) ListMovies(context.Context, string) ([]core.Movie, error) {
	return nil, f.err
}

func (f failingCatalog) GetMovie(context.Context, int) (*core.Movie, error) { return nil, f.err }

func (f failingCatalog) ListReviews(context.Context, int) ([]core.Review, error) {
	return nil, f.err
}

func (f failingCatalog) GetPerson(context.Context, core.PersonKind, int) (*core.PersonWithMovies, error) {
	return nil, f.err
}

// recordingCatalog captures the query passed to ListMovies.
type recordingCatalog struct {
	failingCatalog
	query string
}

func (r *recordingCatalog) ListMovies(_ context.Context, query string) ([]core.Movie, error) {
	r.query = query
	return []core.Movie{}, nil
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func seededServer() *Server {
	return NewServer(fixture.NewStore(fixture.Seed()), discardLogger)
}

func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	_, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestListGenres(t *testing.T) {
	t.Parallel()
	result := callTool(t, seededServer(), "list_genres", map[string]any{})

	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
	var got []core.Genre
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 genres, got %d", len(got))
	}
}

func TestSearchMovies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]any
		want int
	}{
		{"no criteria", map[string]any{}, 4},
		{"title", map[string]any{"filter_type": "title", "text": "gold"}, 1},
		{"text defaults to title", map[string]any{"text": "dark"}, 1},
		{"genres default to genre", map[string]any{"genres": []any{"Drama", "Comedy"}}, 2},
		{"actor", map[string]any{"filter_type": "actor", "text": "stone"}, 3},
		{"director", map[string]any{"filter_type": "director", "text": "smith"}, 3},
		{"no match", map[string]any{"filter_type": "title", "text": "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, seededServer(), "search_movies", tt.args)
			if result.IsError {
				t.Fatalf("expected success, got error: %s", resultText(t, result))
			}
			var got []core.Movie
			if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d movies, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSearchMovies_BuildsQuery(t *testing.T) {
	t.Parallel()
	cat := &recordingCatalog{}
	srv := NewServer(cat, discardLogger)

	callTool(t, srv, "search_movies", map[string]any{
		"filter_type": "genre",
		"text":        "ignored",
		"genres":      []any{"Sci-Fi", "Action", "Sci-Fi"},
	})
	if cat.query != "genre=Sci-Fi&genre=Action" {
		t.Errorf("query = %q", cat.query)
	}
}

func TestSearchMovies_Errors(t *testing.T) {
	t.Parallel()

	result := callTool(t, seededServer(), "search_movies", map[string]any{"filter_type": "studio"})
	if !result.IsError {
		t.Error("expected error for unknown filter type")
	}

	srv := NewServer(failingCatalog{err: errors.New("down")}, discardLogger)
	result = callTool(t, srv, "search_movies", map[string]any{})
	if !result.IsError || resultText(t, result) != listing.LoadFailedMessage {
		t.Errorf("expected load failure message, got %q", resultText(t, result))
	}
}

func TestGetMovieDetails(t *testing.T) {
	t.Parallel()
	result := callTool(t, seededServer(), "get_movie_details", map[string]any{"id": 1})

	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
	var got detail.Movie
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Movie.Title != "The Great Adventure" || len(got.Reviews) != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestGetMovieDetails_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		srv  *Server
		args map[string]any
		want string
	}{
		{"not found", seededServer(), map[string]any{"id": 404}, detail.MovieNotFoundMessage},
		{"failure", NewServer(failingCatalog{err: errors.New("down")}, discardLogger),
			map[string]any{"id": 1}, detail.MovieLoadFailedMessage},
		{"missing id", seededServer(), map[string]any{}, "id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, tt.srv, "get_movie_details", tt.args)
			if !result.IsError {
				t.Fatal("expected error")
			}
			if got := resultText(t, result); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetPerson(t *testing.T) {
	t.Parallel()

	result := callTool(t, seededServer(), "get_person", map[string]any{"kind": "director", "id": 2})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
	var got core.PersonWithMovies
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.FullName() != "Jane Smith" || len(got.Movies) != 3 {
		t.Errorf("unexpected result: %+v", got)
	}

	// kind defaults to actor
	result = callTool(t, seededServer(), "get_person", map[string]any{"id": "4"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
}

func TestGetPerson_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		srv  *Server
		args map[string]any
		want string
	}{
		{"not found", seededServer(), map[string]any{"kind": "actor", "id": 2}, detail.PersonNotFoundMessage},
		{"failure", NewServer(failingCatalog{err: errors.New("down")}, discardLogger),
			map[string]any{"kind": "director", "id": 2}, "Failed to load directors details. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, tt.srv, "get_person", tt.args)
			if !result.IsError {
				t.Fatal("expected error")
			}
			if got := resultText(t, result); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	result := callTool(t, seededServer(), "get_person", map[string]any{"kind": "producer", "id": 1})
	if !result.IsError {
		t.Error("expected error for unknown kind")
	}
}
