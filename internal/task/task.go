package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"not null" json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `gorm:"column:due_date" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
}

// Filter narrows a listing; zero values mean "no constraint".
type Filter struct {
	Status      Status
	Priority    string
	Search      string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// Page is offset pagination with a sort column. SortBy takes the JSON field
// names (createdAt, dueDate, ...); the repository maps them to columns.
type Page struct {
	Number int
	Size   int
	SortBy string
	Desc   bool
}

type Repository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, f Filter, p Page) ([]Task, int64, error)
}
