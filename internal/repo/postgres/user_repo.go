package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (p *UserRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, uniqueViolation(pgErr)
		}
		return model.User{}, apperrors.WrapInternal(err, "CreateUser")
	}
	return user, nil
}

// uniqueViolation names the conflicting field from the constraint that fired,
// so a create that loses a race reports the same message the exists checks
// would have.
func uniqueViolation(pgErr *pgconn.PgError) error {
	if strings.Contains(pgErr.ConstraintName, "username") {
		return apperrors.NewConflict("username already exists")
	}
	return apperrors.NewConflict("email already exists")
}

func (p *UserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, apperrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, apperrors.WrapInternal(err, "GetUserByEmail")
	}
	return u, nil
}

func (p *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, apperrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, apperrors.WrapInternal(err, "GetUserByID")
	}
	return u, nil
}

func (p *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	if err := res.Error; err != nil {
		return false, apperrors.WrapInternal(err, "ExistsByEmail")
	}
	return count > 0, nil
}

func (p *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	res := p.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count)
	if err := res.Error; err != nil {
		return false, apperrors.WrapInternal(err, "ExistsByUsername")
	}
	return count > 0, nil
}
