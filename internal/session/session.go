package session

import (
	"context"
	"errors"
)

// UserSummary is the slice of the upstream user object kept alongside the token.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Session is the per-login state shared across pages: the upstream bearer token
// and, when the auth endpoint returned one, a user summary.
type Session struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user,omitempty"`
}

// ErrEmptyToken rejects saving a session without a token; an absent token means
// unauthenticated, and such a session must never be persisted.
var ErrEmptyToken = errors.New("session token required")

// Store persists sessions keyed by session ID.
type Store interface {
	Save(ctx context.Context, id string, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}
