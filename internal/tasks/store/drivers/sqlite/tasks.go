package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite/gen"
)

type tasksRepo struct {
	q *gen.Queries
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	err := r.q.CreateTask(ctx, gen.CreateTaskParams{
		ID:          t.ID,
		Title:       t.Title,
		Description: mapOptionalString(t.Description),
		IsDone:      t.IsDone,
		DeveloperID: mapOptionalString(t.DeveloperID),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		CompletedAt: mapOptionalTime(t.CompletedAt),
	})
	return mapConstraint(err)
}

func (r *tasksRepo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row, err := r.q.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return mapTaskRow(row), nil
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	return expectRow(r.q.UpdateTask(ctx, gen.UpdateTaskParams{
		Title:       t.Title,
		Description: mapOptionalString(t.Description),
		IsDone:      t.IsDone,
		UpdatedAt:   t.UpdatedAt.UTC(),
		CompletedAt: mapOptionalTime(t.CompletedAt),
		ID:          t.ID,
	}))
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	return expectRow(r.q.DeleteTask(ctx, id))
}

func (r *tasksRepo) ListTasks(
	ctx context.Context,
	f store.TaskFilter,
	limit, offset int,
) ([]domain.Task, error) {
	rows, err := r.q.ListTasks(ctx, gen.ListTasksParams{
		DeveloperID: mapOptionalString(f.DeveloperID),
		IsDone:      mapOptionalBool(f.IsDone),
		Limit:       int64(limit),
		Offset:      int64(offset),
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, len(rows))
	for i, row := range rows {
		tasks[i] = mapTaskRow(gen.GetTaskRow(row))
	}
	return tasks, nil
}

func (r *tasksRepo) CountTasks(ctx context.Context, f store.TaskFilter) (int, error) {
	n, err := r.q.CountTasks(ctx, gen.CountTasksParams{
		DeveloperID: mapOptionalString(f.DeveloperID),
		IsDone:      mapOptionalBool(f.IsDone),
	})
	return int(n), err
}
