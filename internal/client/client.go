package client

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/TWRT/savvystudy/internal/models"
)

// ErrAuth covers bad credentials and sign-up conflicts.
var ErrAuth = errors.New("authentication failed")

type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	// Refresh returns the user with a renewed store credential.
	Refresh(ctx context.Context, user *models.User) (*models.User, error)
}

// RecordStore is a path-addressed document store. Get returns nil when
// nothing is stored at path. idToken is the caller's credential; stores
// that do not need one ignore it.
type RecordStore interface {
	Get(ctx context.Context, idToken, path string) (json.RawMessage, error)
	Set(ctx context.Context, idToken, path string, value any) error
	// Update writes several children of path in one atomic operation: either
	// every child is replaced or none is.
	Update(ctx context.Context, idToken, path string, children map[string]any) error
}

// Notifier delivers notifications fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}
