package ports

import (
	"context"

	"github.com/supportkit/pathfinder/pkg/domain"
)

// SessionStore defines the interface for keeping navigation sessions between requests.
// Sessions live as long as the operator's tab; stores may expire them.
type SessionStore interface {
	// Save persists the session under sessionID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the session for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
