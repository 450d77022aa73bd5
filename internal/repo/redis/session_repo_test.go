package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

func newRepo(t *testing.T) *SessionRepo {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	return NewSessionRepo(client)
}

func token(uid uuid.UUID, value string) model.RefreshToken {
	return model.RefreshToken{
		Token:     value,
		UserID:    uid,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionRepo_ReplaceAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	uid := uuid.New()

	if err := repo.Replace(ctx, token(uid, "tok1")); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	rt, err := repo.FindByToken(ctx, "tok1")
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if rt.UserID != uid {
		t.Fatalf("want user %s, got %s", uid, rt.UserID)
	}
	if !rt.ExpiresAt.After(time.Now()) {
		t.Fatal("expiry must round-trip into the future")
	}
}

func TestSessionRepo_ReplaceDropsOldToken(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	uid := uuid.New()

	if err := repo.Replace(ctx, token(uid, "old")); err != nil {
		t.Fatalf("Replace old: %v", err)
	}
	if err := repo.Replace(ctx, token(uid, "new")); err != nil {
		t.Fatalf("Replace new: %v", err)
	}

	if _, err := repo.FindByToken(ctx, "old"); !apperrors.IsNotFound(err) {
		t.Fatalf("old token must be gone, got %v", err)
	}
	if _, err := repo.FindByToken(ctx, "new"); err != nil {
		t.Fatalf("new token must resolve: %v", err)
	}
}

func TestSessionRepo_FindAbsent(t *testing.T) {
	repo := newRepo(t)
	if _, err := repo.FindByToken(context.Background(), "absent"); !apperrors.IsNotFound(err) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSessionRepo_DeleteByToken(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	uid := uuid.New()

	if err := repo.Replace(ctx, token(uid, "tok")); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := repo.DeleteByToken(ctx, "tok"); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	if _, err := repo.FindByToken(ctx, "tok"); !apperrors.IsNotFound(err) {
		t.Fatalf("token must be gone, got %v", err)
	}
	// idempotent
	if err := repo.DeleteByToken(ctx, "tok"); err != nil {
		t.Fatalf("second DeleteByToken: %v", err)
	}
}

func TestSessionRepo_DeleteStaleTokenKeepsNewSession(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	uid := uuid.New()

	if err := repo.Replace(ctx, token(uid, "stale")); err != nil {
		t.Fatalf("Replace stale: %v", err)
	}
	if err := repo.Replace(ctx, token(uid, "live")); err != nil {
		t.Fatalf("Replace live: %v", err)
	}

	// revoking the rotated-out value must not touch the live session
	if err := repo.DeleteByToken(ctx, "stale"); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	if _, err := repo.FindByToken(ctx, "live"); err != nil {
		t.Fatalf("live session lost: %v", err)
	}
	if err := repo.Replace(ctx, token(uid, "next")); err != nil {
		t.Fatalf("Replace next: %v", err)
	}
	if _, err := repo.FindByToken(ctx, "live"); !apperrors.IsNotFound(err) {
		t.Fatalf("rotation after revoke broken: %v", err)
	}
}

func TestSessionRepo_DeleteByUser(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	uid := uuid.New()

	if err := repo.Replace(ctx, token(uid, "tok")); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := repo.DeleteByUser(ctx, uid); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if _, err := repo.FindByToken(ctx, "tok"); !apperrors.IsNotFound(err) {
		t.Fatalf("token must be gone, got %v", err)
	}
	// idempotent
	if err := repo.DeleteByUser(ctx, uid); err != nil {
		t.Fatalf("second DeleteByUser: %v", err)
	}
}
