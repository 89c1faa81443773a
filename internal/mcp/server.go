package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/detail"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Server wraps an MCP SDK server with catalogue tool handlers.
type Server struct {
	server  *mcpsdk.Server
	catalog core.Catalog
	logger  *slog.Logger
}

// NewServer creates an MCP server with all catalogue tools registered.
func NewServer(catalog core.Catalog, logger *slog.Logger) *Server {
	if catalog == nil {
		panic("mcp.NewServer: catalog must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "movex",
			Version: Version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, catalog: catalog, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(listGenresTool(), s.handleListGenres)
	s.server.AddTool(searchMoviesTool(), s.handleSearchMovies)
	s.server.AddTool(getMovieDetailsTool(), s.handleGetMovieDetails)
	s.server.AddTool(getPersonTool(), s.handleGetPerson)
}

func listGenresTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_genres",
		Description: "List the genre vocabulary of the catalogue.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func searchMoviesTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name: "search_movies",
		Description: "Search the movie catalogue along one dimension: title, actor or director by free text, " +
			"or genre by one or more genre names (a movie matches if it has any of them). " +
			"With no criteria every movie is returned.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"filter_type": map[string]any{
					"type":        "string",
					"enum":        []any{"title", "genre", "actor", "director"},
					"description": "Search dimension. Defaults to genre when genres are given, otherwise title.",
				},
				"text": map[string]any{
					"type":        "string",
					"description": "Free text for title, actor or director search",
				},
				"genres": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Genre names for genre search",
				},
			},
		},
	}
}

func getMovieDetailsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_movie_details",
		Description: "Get a movie by id together with its reviews: cast, director, genres and rating.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "integer",
					"description": "The catalogue id of the movie",
				},
			},
			"required": []any{"id"},
		},
	}
}

func getPersonTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_person",
		Description: "Get an actor or director profile by id, with their movies.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kind": map[string]any{
					"type":        "string",
					"enum":        []any{"actor", "director"},
					"description": "Which collection the id belongs to. Defaults to actor.",
				},
				"id": map[string]any{
					"type":        "integer",
					"description": "The catalogue id of the person",
				},
			},
			"required": []any{"id"},
		},
	}
}

// Tool handlers: each parses arguments, calls the catalogue, returns JSON text content.

func (s *Server) handleListGenres(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	genres, err := s.catalog.ListGenres(ctx)
	if err != nil {
		s.logger.Warn("list genres failed", slog.String("error", err.Error()))
		return toolError(fmt.Sprintf("list genres failed: %v", err)), nil
	}
	return toolJSON(genres)
}

func (s *Server) handleSearchMovies(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		FilterType string   `json:"filter_type"`
		Text       string   `json:"text"`
		Genres     []string `json:"genres"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	ft, err := listing.ParseFilterType(args.FilterType)
	if err != nil {
		return toolError(err.Error()), nil
	}
	if ft == listing.FilterNone {
		ft = listing.FilterTitle
		if len(args.Genres) > 0 {
			ft = listing.FilterGenre
		}
	}

	query := listing.Build(args.Text, ft, listing.NewGenreSelection(args.Genres...).Names())
	movies, err := s.catalog.ListMovies(ctx, query)
	if err != nil {
		s.logger.Warn("search movies failed", slog.String("query", query), slog.String("error", err.Error()))
		return toolError(listing.LoadFailedMessage), nil
	}
	return toolJSON(movies)
}

func (s *Server) handleGetMovieDetails(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	id, err := extractIntFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	view := detail.MovieView(ctx, s.catalog, id)
	switch view.Phase() {
	case detail.PhaseNotFound:
		return toolError(detail.MovieNotFoundMessage), nil
	case detail.PhaseFailed:
		return toolError(view.Message()), nil
	}
	return toolJSON(view.Data())
}

func (s *Server) handleGetPerson(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	kind, err := core.ParsePersonKind(args.Kind)
	if err != nil {
		return toolError(err.Error()), nil
	}
	id, err := extractIntFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	view := detail.PersonView(ctx, s.catalog, kind, id)
	switch view.Phase() {
	case detail.PhaseNotFound:
		return toolError(detail.PersonNotFoundMessage), nil
	case detail.PhaseFailed:
		return toolError(view.Message()), nil
	}
	return toolJSON(view.Data())
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIntFromArgs extracts an integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return 0, fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}
