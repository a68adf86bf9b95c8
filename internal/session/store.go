package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"url-shortener-web/internal/domain"
)

// State is the part of a visitor's submission view that survives a page load
type State struct {
	Status   domain.Status `json:"status"`
	ShortURL string        `json:"short_url,omitempty"`
}

// Store defines the interface for session persistence
// This abstraction allows swapping implementations (Redis, in-memory)
type Store interface {
	// Load returns the state of a session or domain.ErrSessionNotFound
	Load(ctx context.Context, id string) (State, error)

	// Save stores the state of a session, refreshing its expiration
	Save(ctx context.Context, id string, state State, ttl time.Duration) error

	// Delete removes a session
	Delete(ctx context.Context, id string) error

	// Close releases the underlying connection
	Close() error
}

// NewID generates a fresh session identifier
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one of ours
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
