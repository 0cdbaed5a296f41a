package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/policy"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/pkg/idx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

const MaxTitleLength = 200

// TaskService runs the single-task operations. Each one looks the task up,
// asks the policy, validates, then writes, and stops at the first failure.
type TaskService struct {
	Store store.Store
	Clock domain.Clock
}

// CreateTaskInput is the decoded create payload. The developer field of the
// request never reaches here: ownership comes from the actor.
type CreateTaskInput struct {
	Title       tasksdk.Optional[string]
	Description tasksdk.Optional[string]
	IsDone      tasksdk.Optional[bool]
}

// UpdateTaskInput is a partial update; unset fields keep their value.
type UpdateTaskInput struct {
	Title       tasksdk.Optional[string]
	Description tasksdk.Optional[string]
	IsDone      tasksdk.Optional[bool]

	// BodyErr is a request body that could not be read. It is returned
	// as is, after the lookup and policy checks pass.
	BodyErr error
}

func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in CreateTaskInput) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	if err := policy.CanCreateTask(actor); err != nil {
		log.Warn("task create denied", "reason", err)
		return domain.Task{}, FromPolicy(err)
	}

	var v ValidationError
	title := validateTitle(&v, in.Title, true)
	if in.IsDone.Set && in.IsDone.Null {
		v.Add("is_done", msgNull)
	}
	if err := v.Err(); err != nil {
		return domain.Task{}, err
	}

	now := nowFrom(s.Clock)
	owner := policy.Owner(actor)
	task := domain.Task{
		ID:          idx.NewAt(now).String(),
		Title:       title,
		Description: in.Description.Get(),
		IsDone:      in.IsDone.Present() && in.IsDone.Value,
		DeveloperID: &owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.SyncCompletion(now)

	var created domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().CreateTask(ctx, task); err != nil {
			return err
		}
		var err error
		created, err = tx.Tasks().GetTask(ctx, task.ID)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}

	log.Info("task created", "task_id", created.ID, "is_done", created.IsDone)
	return created, nil
}

// Get returns a task the actor may see. A missing task is NotFound whoever
// asks; only an existing one is checked against the policy.
func (s *TaskService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Task, error) {
	task, err := lookup(ctx, s.Store, id)
	if err != nil {
		return domain.Task{}, err
	}
	if err := policy.CanViewTask(actor, task); err != nil {
		slogx.FromContext(ctx).Warn("task view denied", "task_id", id, "reason", err)
		return domain.Task{}, FromPolicy(err)
	}
	return task, nil
}

// Update applies a partial update. Lookup, policy check, validation and
// write share one transaction so completed_at is derived from the row it
// replaces.
func (s *TaskService) Update(
	ctx context.Context,
	actor domain.Actor,
	id string,
	in UpdateTaskInput,
) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	var updated domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		task, err := lookup(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := policy.CanUpdateTask(actor, task); err != nil {
			log.Warn("task update denied", "task_id", id, "reason", err)
			return FromPolicy(err)
		}
		if in.BodyErr != nil {
			return in.BodyErr
		}

		patch, err := in.patch()
		if err != nil {
			return err
		}

		task.Apply(patch, nowFrom(s.Clock))
		if err := tx.Tasks().UpdateTask(ctx, task); err != nil {
			return err
		}
		updated, err = tx.Tasks().GetTask(ctx, id)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}

	log.Info("task updated", "task_id", id, "is_done", updated.IsDone)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		task, err := lookup(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := policy.CanDeleteTask(actor, task); err != nil {
			log.Warn("task delete denied", "task_id", id, "reason", err)
			return FromPolicy(err)
		}
		return tx.Tasks().DeleteTask(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info("task deleted", "task_id", id)
	return nil
}

func lookup(ctx context.Context, st store.Store, id string) (domain.Task, error) {
	if !idx.Valid(id) {
		return domain.Task{}, newError(ErrNotFound, MsgTaskNotFound)
	}
	task, err := st.Tasks().GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Task{}, newError(ErrNotFound, MsgTaskNotFound)
	}
	return task, err
}

func (in UpdateTaskInput) patch() (domain.TaskPatch, error) {
	var (
		v     ValidationError
		patch domain.TaskPatch
	)

	if in.Title.Set {
		title := validateTitle(&v, in.Title, false)
		patch.Title = &title
	}
	if in.Description.Set {
		patch.SetDescription = true
		patch.Description = in.Description.Get()
	}
	if in.IsDone.Set {
		if in.IsDone.Null {
			v.Add("is_done", msgNull)
		} else {
			patch.IsDone = &in.IsDone.Value
		}
	}

	return patch, v.Err()
}

// validateTitle records any problem with t on v and returns the trimmed
// title.
func validateTitle(v *ValidationError, t tasksdk.Optional[string], required bool) string {
	switch {
	case !t.Set:
		if required {
			v.Add("title", msgRequired)
		}
		return ""
	case t.Null:
		v.Add("title", msgNull)
		return ""
	}

	title := strings.TrimSpace(t.Value)
	switch {
	case title == "":
		v.Add("title", msgBlank)
	case utf8.RuneCountInString(title) > MaxTitleLength:
		v.Add("title", "Ensure this field has no more than 200 characters.")
	}
	return title
}
