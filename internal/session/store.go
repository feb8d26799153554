package session

import (
	"context"
	"time"
)

// Store tracks the per-username session record (the current refresh token)
// and a denylist of access tokens revoked before their natural expiry.
type Store interface {
	SetSession(ctx context.Context, username, refreshToken string, ttl time.Duration) error
	// GetSession returns "" when no session exists.
	GetSession(ctx context.Context, username string) (string, error)
	DeleteSession(ctx context.Context, username string) error

	Deny(ctx context.Context, accessToken string, ttl time.Duration) error
	IsDenied(ctx context.Context, accessToken string) (bool, error)
}
