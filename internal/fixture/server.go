package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vadimtrunov/MovieExplore/internal/core"
)

// APIPrefix is the path every catalogue route is mounted under.
const APIPrefix = "/api/v1"

const shutdownTimeout = 5 * time.Second

// Server serves a Store over the catalogue REST API.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	store      *Store
	listener   net.Listener
	mu         sync.RWMutex
	ready      chan struct{}
	started    atomic.Bool
	logger     *slog.Logger
}

// NewServer creates a server for store listening on port. Port 0 picks a
// free port; read it from Addr once Ready is closed.
func NewServer(port int, store *Store, logger *slog.Logger) *Server {
	if store == nil {
		panic("fixture.NewServer: store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	s := &Server{
		router: r,
		store:  store,
		ready:  make(chan struct{}),
		logger: logger,
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/genres", s.handleListGenres)
		r.Get("/movies", s.handleListMovies)
		r.Get("/movies/{id}", s.handleGetMovie)
		r.Get("/reviews", s.handleListReviews)
		r.Get("/actors/{id}", s.personHandler(core.KindActors))
		r.Get("/directors/{id}", s.personHandler(core.KindDirectors))
	})
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
}

// Handler exposes the router, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Ready returns a channel that is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// BaseURL returns the API root for a client of this server, or "" before Start.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr + APIPrefix
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("fixture server already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("fixture server listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("fixture server started", slog.String("addr", ln.Addr().String()))

	serveDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}
		s.logger.Info("fixture server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		//nolint:contextcheck // parent ctx is canceled; shutdown needs a fresh one
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("fixture server shutdown error", slog.String("error", err.Error()))
		}
	}()

	err = s.httpServer.Serve(ln)
	close(serveDone)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fixture server: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, _ := s.store.ListGenres(r.Context())
	writeJSON(w, http.StatusOK, genres)
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	f, err := ParseMovieFilter(r.URL.Query())
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Movies(f))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	movie, err := s.store.GetMovie(r.Context(), id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("movieId")
	if raw == "" {
		raw = q.Get("movie_id")
	}
	var movieID int
	if raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "movie id must be an integer")
			return
		}
		movieID = id
	}
	var minRating float64
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "min_rating must be a number")
			return
		}
		minRating = f
	}
	writeJSON(w, http.StatusOK, s.store.Reviews(movieID, minRating))
}

func (s *Server) personHandler(kind core.PersonKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		person, err := s.store.GetPerson(r.Context(), kind, id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, kind.Label()+" not found")
			return
		}
		writeJSON(w, http.StatusOK, person)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
