package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Replace runs delete-then-insert in one transaction. Either both apply or
// neither does, so a cancelled login cannot leave the user without a session
// row mid-swap, and concurrent logins serialize on the user's unique index.
func (p *SessionRepo) Replace(ctx context.Context, rt model.RefreshToken) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", rt.UserID).Delete(&model.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&rt).Error
	})
	if err != nil {
		return apperrors.WrapInternal(err, "Replace")
	}
	return nil
}

func (p *SessionRepo) FindByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	var rt model.RefreshToken
	res := p.db.WithContext(ctx).Where("token = ?", token).First(&rt)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.RefreshToken{}, apperrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.RefreshToken{}, apperrors.WrapInternal(err, "FindByToken")
	}
	return rt, nil
}

func (p *SessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	res := p.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	if err := res.Error; err != nil {
		return apperrors.WrapInternal(err, "DeleteByUser")
	}
	return nil
}

func (p *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	res := p.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{})
	if err := res.Error; err != nil {
		return apperrors.WrapInternal(err, "DeleteByToken")
	}
	return nil
}
