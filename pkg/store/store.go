package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist
var ErrNotFound = errors.New("session not found")

// Session is a persisted session record
type Session struct {
	ID        string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists session records
// Data is opaque to the store.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	// List returns every session, without its data, most recently updated first
	List(ctx context.Context) ([]*Session, error)
	// DeleteExpired removes every session last updated before the cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
