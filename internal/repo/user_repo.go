package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/auth/model"
)

// UserRepo is pure storage for user records; uniqueness rules live in the
// schema, business rules in the auth service.
type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
