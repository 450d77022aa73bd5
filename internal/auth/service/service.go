package service

import (
	"context"

	validate "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/auth/dto"
	"github.com/tasktrack/tasktrack/internal/auth/jwt"
	"github.com/tasktrack/tasktrack/internal/auth/model"
	"github.com/tasktrack/tasktrack/internal/auth/password"
	"github.com/tasktrack/tasktrack/internal/repo"
)

// SessionStore is the refresh-token lifecycle the service drives. Satisfied
// by *session.Manager.
type SessionStore interface {
	IssueFor(ctx context.Context, userID uuid.UUID) (model.RefreshToken, error)
	Resolve(ctx context.Context, value string) (model.RefreshToken, error)
	AssertLive(ctx context.Context, rt model.RefreshToken) (model.RefreshToken, error)
	RevokeFor(ctx context.Context, userID uuid.UUID) error
	Revoke(ctx context.Context, value string) error
}

// AuthService walks a user through Anonymous -> Authenticated -> Anonymous.
// Register creates the account, Login opens the single session, Refresh
// keeps it alive, Logout (or detected expiry) closes it.
type AuthService interface {
	Register(ctx context.Context, dto dto.RegisterDTO) (model.UserView, error)
	Login(ctx context.Context, dto dto.LoginDTO) (model.TokenPair, error)
	Refresh(ctx context.Context, dto dto.RefreshDTO) (model.TokenPair, error)
	Logout(ctx context.Context, dto dto.LogoutDTO) error
	CurrentUser(ctx context.Context, principal model.Principal) (model.UserView, error)
}

func NewAuthService(userRepo repo.UserRepo, sessions SessionStore, issuer jwt.Issuer, hasher *password.Hasher, v *validate.Validate) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		issuer:   issuer,
		hasher:   hasher,
		v:        v,
	}
}
