package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/auth/model"
)

// SessionRepo persists refresh tokens.
//
// Replace is the concurrency-sensitive call: it must atomically drop any
// token the user already holds and insert the new one, so two concurrent
// logins can never leave two live tokens (or zero) for the same user.
type SessionRepo interface {
	Replace(ctx context.Context, rt model.RefreshToken) error

	FindByToken(ctx context.Context, token string) (model.RefreshToken, error)

	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	DeleteByToken(ctx context.Context, token string) error
}
