package service

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/policy"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/tasktrack/internal/tasks/service")

// TaskQuery holds the raw list parameters. A nil pointer means the parameter
// was not in the request at all.
type TaskQuery struct {
	Developer *string
	IsDone    *string
	Page      *string
	PageSize  *string
}

// TaskPage is one page of a listing.
type TaskPage struct {
	Tasks       []domain.Task
	Count       int
	Page        int
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

type TaskQueryService struct {
	Store store.Store
}

// List builds the actor's view of the tasks: role scope, then the lead-only
// developer filter, then the status filter, newest first, paginated.
// Asking for a page past the end returns no tasks rather than an error.
func (s *TaskQueryService) List(ctx context.Context, actor domain.Actor, q TaskQuery) (TaskPage, error) {
	ctx, span := tracer.Start(ctx, "TaskQueryService.List")
	defer span.End()
	span.SetAttributes(attribute.String("actor.role", actor.Role.String()))

	if err := policy.CanListTasks(actor); err != nil {
		return TaskPage{}, FromPolicy(err)
	}

	page, size, err := parsePagination(q.Page, q.PageSize)
	if err != nil {
		return TaskPage{}, err
	}

	scope := policy.ListScope(actor)
	filter := store.TaskFilter{DeveloperID: scope.DeveloperID}

	// A developer's scope is already a single owner; their filter is ignored.
	if actor.IsLead() && q.Developer != nil && *q.Developer != "" {
		filter.DeveloperID = q.Developer
	}
	if q.IsDone != nil {
		done := strings.EqualFold(*q.IsDone, "true")
		filter.IsDone = &done
	}

	count, err := s.Store.Tasks().CountTasks(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count tasks")
		return TaskPage{}, err
	}

	pages := (count + size - 1) / size
	tasks := []domain.Task{}
	if page <= pages {
		tasks, err = s.Store.Tasks().ListTasks(ctx, filter, size, (page-1)*size)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list tasks")
			return TaskPage{}, err
		}
	}

	span.SetAttributes(
		attribute.Int("tasks.page", page),
		attribute.Int("tasks.page_size", size),
		attribute.Int("tasks.count", count),
	)

	return TaskPage{
		Tasks:       tasks,
		Count:       count,
		Page:        page,
		PageSize:    size,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}, nil
}

func parsePagination(pageRaw, sizeRaw *string) (page, size int, err error) {
	var v ValidationError

	page = 1
	if pageRaw != nil {
		n, convErr := strconv.Atoi(strings.TrimSpace(*pageRaw))
		if convErr != nil || n < 1 {
			v.Add("page", "Invalid page.")
		}
		page = n
	}

	size = tasksdk.DefaultPageSize
	if sizeRaw != nil {
		n, convErr := strconv.Atoi(strings.TrimSpace(*sizeRaw))
		if convErr != nil || n < 1 {
			v.Add("page_size", "Invalid page size.")
		}
		size = min(n, tasksdk.MaxPageSize)
	}

	return page, size, v.Err()
}
