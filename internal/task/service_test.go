package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack/internal/auth/model"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
)

type repoStub struct{ tasks map[uuid.UUID]Task }

func newRepoStub() *repoStub { return &repoStub{tasks: make(map[uuid.UUID]Task)} }

func (r *repoStub) Create(ctx context.Context, t Task) (Task, error) {
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.tasks[t.ID] = t
	return t, nil
}
func (r *repoStub) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, apperrors.NewNotFound("task not found")
	}
	return t, nil
}
func (r *repoStub) Update(ctx context.Context, t Task) (Task, error) {
	t.UpdatedAt = time.Now()
	r.tasks[t.ID] = t
	return t, nil
}
func (r *repoStub) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.tasks, id)
	return nil
}
func (r *repoStub) ListByUser(ctx context.Context, userID uuid.UUID, f Filter, p Page) ([]Task, int64, error) {
	var out []Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func TestService_CreateDefaultsToTodo(t *testing.T) {
	svc := NewService(newRepoStub())
	owner := model.Principal{UserID: uuid.New()}

	created, err := svc.Create(context.Background(), CreateInput{Title: "write report"}, owner)
	require.NoError(t, err)
	require.Equal(t, StatusTodo, created.Status)
	require.Equal(t, owner.UserID, created.UserID)
}

func TestService_CreateRejectsEmptyTitle(t *testing.T) {
	svc := NewService(newRepoStub())
	_, err := svc.Create(context.Background(), CreateInput{Title: "   "}, model.Principal{UserID: uuid.New()})
	require.True(t, apperrors.IsInvalidArgument(err))
}

func TestService_GetForeignTaskIsForbidden(t *testing.T) {
	repo := newRepoStub()
	svc := NewService(repo)
	owner := model.Principal{UserID: uuid.New()}
	intruder := model.Principal{UserID: uuid.New()}

	created, err := svc.Create(context.Background(), CreateInput{Title: "secret"}, owner)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, intruder)
	require.True(t, apperrors.IsForbidden(err))

	got, err := svc.Get(context.Background(), created.ID, owner)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestService_UpdateChecksOwnershipAfterResolution(t *testing.T) {
	repo := newRepoStub()
	svc := NewService(repo)
	owner := model.Principal{UserID: uuid.New()}
	intruder := model.Principal{UserID: uuid.New()}
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "task"}, owner)
	require.NoError(t, err)

	// absent resource is NotFound, not Forbidden
	_, err = svc.Update(ctx, uuid.New(), UpdateInput{}, intruder)
	require.True(t, apperrors.IsNotFound(err))

	// present but foreign is Forbidden
	newTitle := "hijacked"
	_, err = svc.Update(ctx, created.ID, UpdateInput{Title: &newTitle}, intruder)
	require.True(t, apperrors.IsForbidden(err))
	require.Equal(t, "task", repo.tasks[created.ID].Title)
}

func TestService_UpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc := NewService(newRepoStub())
	owner := model.Principal{UserID: uuid.New()}
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "task", Description: "desc", Priority: "high"}, owner)
	require.NoError(t, err)

	done := StatusDone
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Status: &done}, owner)
	require.NoError(t, err)
	require.Equal(t, StatusDone, updated.Status)
	require.Equal(t, "task", updated.Title)
	require.Equal(t, "desc", updated.Description)
	require.Equal(t, "high", updated.Priority)
}

func TestService_UpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newRepoStub())
	owner := model.Principal{UserID: uuid.New()}
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "task"}, owner)
	require.NoError(t, err)

	bad := Status("SOMEDAY")
	_, err = svc.Update(ctx, created.ID, UpdateInput{Status: &bad}, owner)
	require.True(t, apperrors.IsInvalidArgument(err))
}

func TestService_DeleteForeignTaskIsForbidden(t *testing.T) {
	repo := newRepoStub()
	svc := NewService(repo)
	owner := model.Principal{UserID: uuid.New()}
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "task"}, owner)
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, model.Principal{UserID: uuid.New()})
	require.True(t, apperrors.IsForbidden(err))
	require.Len(t, repo.tasks, 1)

	require.NoError(t, svc.Delete(ctx, created.ID, owner))
	require.Empty(t, repo.tasks)
}

func TestService_ListIsScopedToPrincipal(t *testing.T) {
	svc := NewService(newRepoStub())
	alice := model.Principal{UserID: uuid.New()}
	bob := model.Principal{UserID: uuid.New()}
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: "a1"}, alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Title: "a2"}, alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Title: "b1"}, bob)
	require.NoError(t, err)

	tasks, total, err := svc.List(ctx, Filter{}, Page{Size: 20}, alice)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, tk := range tasks {
		require.Equal(t, alice.UserID, tk.UserID)
	}
}

func TestService_ListClampsPageSize(t *testing.T) {
	svc := NewService(newRepoStub())
	_, _, err := svc.List(context.Background(), Filter{}, Page{Size: 10_000}, model.Principal{UserID: uuid.New()})
	require.NoError(t, err)
}
