package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	"github.com/tasktrack/tasktrack/internal/authz"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

type CreateInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    string     `json:"priority" validate:"max=50"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateInput applies only the fields that are present.
type UpdateInput struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	Status      *Status    `json:"status"`
	Priority    *string    `json:"priority" validate:"omitempty,max=50"`
	DueDate     *time.Time `json:"dueDate"`
}

// Service owns task CRUD. Every read of a foreign task and every mutation is
// gated: the task is resolved first (absent -> NotFound), then the principal
// must own it (mismatch -> Forbidden).
type Service interface {
	Create(ctx context.Context, in CreateInput, principal model.Principal) (Task, error)
	Get(ctx context.Context, id uuid.UUID, principal model.Principal) (Task, error)
	List(ctx context.Context, f Filter, p Page, principal model.Principal) ([]Task, int64, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput, principal model.Principal) (Task, error)
	Delete(ctx context.Context, id uuid.UUID, principal model.Principal) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in CreateInput, principal model.Principal) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, apperrors.NewInvalidArgument("title is required")
	}
	status := in.Status
	if status == "" {
		status = StatusTodo
	}
	if !status.Valid() {
		return Task{}, apperrors.NewInvalidArgument("unknown status")
	}

	t := Task{
		ID:          uuid.New(),
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		UserID:      principal.UserID,
	}
	return s.repo.Create(ctx, t)
}

func (s *service) Get(ctx context.Context, id uuid.UUID, principal model.Principal) (Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if err := authz.AssertOwner(t.UserID, principal.UserID); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *service) List(ctx context.Context, f Filter, p Page, principal model.Principal) ([]Task, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperrors.NewInvalidArgument("unknown status")
	}
	if p.Size <= 0 || p.Size > 100 {
		p.Size = 20
	}
	if p.Number < 0 {
		p.Number = 0
	}
	return s.repo.ListByUser(ctx, principal.UserID, f, p)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, principal model.Principal) (Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if err := authz.AssertOwner(t.UserID, principal.UserID); err != nil {
		return Task{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Task{}, apperrors.NewInvalidArgument("title cannot be empty")
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Task{}, apperrors.NewInvalidArgument("unknown status")
		}
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}

	return s.repo.Update(ctx, t)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, principal model.Principal) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.AssertOwner(t.UserID, principal.UserID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, t.ID)
}
