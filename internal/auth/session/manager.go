// Package session implements the stateful half of the token lifecycle: one
// opaque refresh token per user, rotated on login, deleted on logout or on
// detected expiry.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
	"github.com/tasktrack/tasktrack/internal/repo"
)

const tokenBytes = 32 // 256 bits of entropy

type Manager struct {
	repo repo.SessionRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewManager(r repo.SessionRepo, ttl time.Duration) *Manager {
	return &Manager{repo: r, ttl: ttl, now: time.Now}
}

// IssueFor mints a fresh refresh token for the user and stores it in place of
// whatever token the user held before. Under concurrent logins the last
// writer wins; exactly one token survives.
func (m *Manager) IssueFor(ctx context.Context, userID uuid.UUID) (model.RefreshToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return model.RefreshToken{}, apperrors.WrapInternal(err, "generate refresh token")
	}

	rt := model.RefreshToken{
		Token:     value,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.repo.Replace(ctx, rt); err != nil {
		return model.RefreshToken{}, err
	}
	return rt, nil
}

// Resolve looks a token up by exact value. An unknown value is an invalid
// token, never a not-found: the caller must not learn whether the value ever
// existed.
func (m *Manager) Resolve(ctx context.Context, value string) (model.RefreshToken, error) {
	rt, err := m.repo.FindByToken(ctx, value)
	if apperrors.IsNotFound(err) {
		return model.RefreshToken{}, fmt.Errorf("%w: invalid refresh token", apperrors.ErrInvalidToken)
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	return rt, nil
}

// AssertLive returns the token unchanged while it has not expired. An expired
// token is deleted on sight, so a later Resolve of the same value fails too.
func (m *Manager) AssertLive(ctx context.Context, rt model.RefreshToken) (model.RefreshToken, error) {
	if !m.now().Before(rt.ExpiresAt) {
		if err := m.repo.DeleteByToken(ctx, rt.Token); err != nil {
			return model.RefreshToken{}, err
		}
		return model.RefreshToken{}, fmt.Errorf("%w: refresh token expired, please login again", apperrors.ErrTokenExpired)
	}
	return rt, nil
}

// RevokeFor drops the user's token if present. Absence is not an error.
func (m *Manager) RevokeFor(ctx context.Context, userID uuid.UUID) error {
	return m.repo.DeleteByUser(ctx, userID)
}

// Revoke drops a token by exact value. Absence is not an error.
func (m *Manager) Revoke(ctx context.Context, value string) error {
	return m.repo.DeleteByToken(ctx, value)
}

func newTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
