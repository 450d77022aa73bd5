package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/tasktrack/tasktrack/internal/errors"
	"github.com/tasktrack/tasktrack/internal/task"
)

type TaskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (p *TaskRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	res := p.db.WithContext(ctx).Create(&t)
	if err := res.Error; err != nil {
		return task.Task{}, apperrors.WrapInternal(err, "CreateTask")
	}
	return t, nil
}

func (p *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	var t task.Task
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&t)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return task.Task{}, apperrors.NewNotFound("task not found")
	}
	if err := res.Error; err != nil {
		return task.Task{}, apperrors.WrapInternal(err, "GetTaskByID")
	}
	return t, nil
}

func (p *TaskRepo) Update(ctx context.Context, t task.Task) (task.Task, error) {
	res := p.db.WithContext(ctx).Save(&t)
	if err := res.Error; err != nil {
		return task.Task{}, apperrors.WrapInternal(err, "UpdateTask")
	}
	return t, nil
}

func (p *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if err := res.Error; err != nil {
		return apperrors.WrapInternal(err, "DeleteTask")
	}
	return nil
}

func (p *TaskRepo) ListByUser(ctx context.Context, userID uuid.UUID, f task.Filter, pg task.Page) ([]task.Task, int64, error) {
	q := p.db.WithContext(ctx).Model(&task.Task{}).Where("user_id = ?", userID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if f.DueDateFrom != nil {
		q = q.Where("due_date >= ?", f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		q = q.Where("due_date <= ?", f.DueDateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapInternal(err, "CountTasks")
	}

	dir := "ASC"
	if pg.Desc {
		dir = "DESC"
	}
	var tasks []task.Task
	err := q.Order(fmt.Sprintf("%s %s", sortColumn(pg.SortBy), dir)).
		Offset(pg.Number * pg.Size).
		Limit(pg.Size).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, apperrors.WrapInternal(err, "ListTasks")
	}
	return tasks, total, nil
}

// sortColumn maps the API's field names onto columns; anything unknown falls
// back to created_at rather than reaching the database verbatim.
func sortColumn(field string) string {
	switch field {
	case "title", "status", "priority":
		return field
	case "dueDate":
		return "due_date"
	case "updatedAt":
		return "updated_at"
	case "createdAt", "":
		return "created_at"
	default:
		return "created_at"
	}
}
