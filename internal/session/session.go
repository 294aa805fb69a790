package session

import (
	"context"

	"github.com/moviemend/moviemend/internal/errors"
)

// Session identifies the authenticated user behind a request
type Session struct {
	UserID string
	Token  string
}

// Provider supplies the current session. Absence of a session is the
// distinct Unauthenticated condition, never a transport error.
type Provider interface {
	Current(ctx context.Context) (Session, error)
}

type contextKey struct{}

// WithSession returns a context carrying the given session
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session from the context, if any
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// ContextProvider resolves sessions from the request context, where the API
// authentication middleware places them.
type ContextProvider struct{}

// Current implements Provider
func (ContextProvider) Current(ctx context.Context) (Session, error) {
	s, ok := FromContext(ctx)
	if !ok || s.UserID == "" {
		return Session{}, errors.Unauthenticated("no active session")
	}
	return s, nil
}

// StaticProvider always returns a fixed session. Used by tests and
// single-user deployments configured with a service token.
type StaticProvider struct {
	Session Session
}

// Current implements Provider
func (p StaticProvider) Current(ctx context.Context) (Session, error) {
	if p.Session.UserID == "" {
		return Session{}, errors.Unauthenticated("no active session")
	}
	return p.Session, nil
}
