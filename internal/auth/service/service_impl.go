package service

import (
	"context"
	"time"

	validate "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/auth/dto"
	"github.com/tasktrack/tasktrack/internal/auth/jwt"
	"github.com/tasktrack/tasktrack/internal/auth/model"
	"github.com/tasktrack/tasktrack/internal/auth/password"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
	"github.com/tasktrack/tasktrack/internal/repo"
)

type authService struct {
	userRepo repo.UserRepo
	sessions SessionStore
	issuer   jwt.Issuer
	hasher   *password.Hasher
	v        *validate.Validate
}

func (a *authService) Register(ctx context.Context, dto dto.RegisterDTO) (model.UserView, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.UserView{}, apperrors.NewInvalidArgument(err.Error())
	}

	// Email is checked before username; a request that collides on both
	// reports the email conflict.
	taken, err := a.userRepo.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		return model.UserView{}, err
	}
	if taken {
		return model.UserView{}, apperrors.NewConflict("email already exists")
	}

	taken, err = a.userRepo.ExistsByUsername(ctx, dto.Username)
	if err != nil {
		return model.UserView{}, err
	}
	if taken {
		return model.UserView{}, apperrors.NewConflict("username already exists")
	}

	passwordHash, err := a.hasher.Hash(dto.Password)
	if err != nil {
		return model.UserView{}, apperrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	saved, err := a.userRepo.CreateUser(ctx, user)
	if err != nil {
		// two registrations racing past the exists checks land on a unique
		// index; the repo names which field collided
		return model.UserView{}, err
	}

	return saved.View(), nil
}

func (a *authService) Login(ctx context.Context, dto dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.TokenPair{}, apperrors.NewInvalidArgument(err.Error())
	}

	// One undifferentiated failure for unknown email and wrong password:
	// login must not confirm which emails have accounts.
	user, err := a.userRepo.GetUserByEmail(ctx, dto.Email)
	if apperrors.IsNotFound(err) {
		return model.TokenPair{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, err
	}
	if !a.hasher.Verify(dto.Password, user.PasswordHash) {
		return model.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	accessToken, exp, err := a.issuer.Generate(user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	// rotates out any previous session for this user
	refresh, err := a.sessions.IssueFor(ctx, user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		AccessTTL:    time.Until(exp),
		User:         user.View(),
	}, nil
}

func (a *authService) Refresh(ctx context.Context, dto dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.TokenPair{}, apperrors.NewInvalidArgument(err.Error())
	}

	rt, err := a.sessions.Resolve(ctx, dto.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	rt, err = a.sessions.AssertLive(ctx, rt)
	if err != nil {
		return model.TokenPair{}, err
	}

	accessToken, exp, err := a.issuer.Generate(rt.UserID)
	if err != nil {
		return model.TokenPair{}, err
	}

	// the refresh token itself is returned unchanged; only login rotates it
	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rt.Token,
		AccessTTL:    time.Until(exp),
	}, nil
}

func (a *authService) Logout(ctx context.Context, dto dto.LogoutDTO) error {
	if err := a.v.Struct(dto); err != nil {
		return apperrors.NewInvalidArgument(err.Error())
	}
	return a.sessions.Revoke(ctx, dto.RefreshToken)
}

func (a *authService) CurrentUser(ctx context.Context, principal model.Principal) (model.UserView, error) {
	user, err := a.userRepo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return model.UserView{}, err
	}
	return user.View(), nil
}
