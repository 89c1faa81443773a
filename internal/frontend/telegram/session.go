package telegram

import (
	"log/slog"
	"sync"

	"github.com/vadimtrunov/MovieExplore/internal/core"
	"github.com/vadimtrunov/MovieExplore/internal/listing"
)

// session is one user's listing state. mu serialises updates from the
// same user, which Telegram may deliver concurrently.
type session struct {
	mu   sync.Mutex
	ctrl *listing.Controller
}

// sessionManager manages per-user sessions and access control.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*session
	allowed  map[int64]bool // nil or empty = allow all
	catalog  core.Catalog
	logger   *slog.Logger
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64, catalog core.Catalog, logger *slog.Logger) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		sessions: make(map[int64]*session),
		allowed:  allowed,
		catalog:  catalog,
		logger:   logger,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// getOrCreate returns the user's session, creating it on first use.
func (sm *sessionManager) getOrCreate(userID int64) *session {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[userID]; ok {
		return s
	}
	s := &session{
		ctrl: listing.NewController(sm.catalog, sm.logger.With(slog.Int64("user_id", userID))),
	}
	sm.sessions[userID] = s
	return s
}

// reset drops a user's session; the next message starts from a fresh listing.
func (sm *sessionManager) reset(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}
