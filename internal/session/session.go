// Package session carries the identity of the viewer performing an
// operation. Every model operation takes a Session explicitly instead of
// reading ambient auth state.
package session

import "context"

// Session describes the caller. The zero value is an anonymous viewer.
type Session struct {
	ViewerID uint
}

// Anonymous returns a session with no viewer.
func Anonymous() Session {
	return Session{}
}

// ForViewer returns a session for an authenticated viewer.
func ForViewer(id uint) Session {
	return Session{ViewerID: id}
}

// Authenticated reports whether the session has a viewer.
func (s Session) Authenticated() bool {
	return s.ViewerID != 0
}

type ctxKey struct{}

// WithContext stores s in ctx.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Anonymous()
}
