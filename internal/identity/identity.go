// Package identity carries the authenticated member id through a request context.
package identity

import "context"

// Anonymous is stored when the request token could not be verified.
const Anonymous int64 = -1

type memberIDKey struct{}

// WithMember returns a child context carrying the resolved member id.
func WithMember(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, memberIDKey{}, id)
}

// FromContext returns the resolved member id. A context that never went
// through identity resolution reads as Anonymous.
func FromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(memberIDKey{}).(int64); ok {
		return id
	}
	return Anonymous
}

// Resolved reports whether identity resolution stored a value in ctx.
func Resolved(ctx context.Context) bool {
	_, ok := ctx.Value(memberIDKey{}).(int64)
	return ok
}

// IsAnonymous reports whether ctx carries no real member.
func IsAnonymous(ctx context.Context) bool {
	return FromContext(ctx) == Anonymous
}
