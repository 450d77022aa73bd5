package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:hashed_password;not null"`
	CreatedAt    time.Time
}

// RefreshToken is the single stored session credential for a user. The value
// is opaque; nothing about the session is derivable from it.
type RefreshToken struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Principal is the identity resolved from a validated access token. It is
// passed explicitly into every protected operation, never read from ambient
// request state.
type Principal struct {
	UserID uuid.UUID
}

// UserView is what leaves the service: a User stripped of the password digest.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	User         UserView
}
