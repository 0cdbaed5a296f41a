package http

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
)

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(tasksdk.TimeLayout)
}

func renderTask(t domain.Task, loc *time.Location) tasksdk.Task {
	out := tasksdk.Task{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		IsDone:            t.IsDone,
		CreatedAt:         formatTime(t.CreatedAt, loc),
		UpdatedAt:         formatTime(t.UpdatedAt, loc),
		Developer:         t.DeveloperID,
		DeveloperUsername: t.DeveloperUsername,
	}
	if t.CompletedAt != nil {
		s := formatTime(*t.CompletedAt, loc)
		out.CompletedAt = &s
	}
	return out
}

func renderPage(r *http.Request, p service.TaskPage, loc *time.Location) tasksdk.TaskList {
	out := tasksdk.TaskList{
		Count:   p.Count,
		Results: make([]tasksdk.Task, len(p.Tasks)),
	}
	for i, t := range p.Tasks {
		out.Results[i] = renderTask(t, loc)
	}
	if p.HasNext {
		out.Next = pageURL(r, p.Page+1)
	}
	if p.HasPrevious {
		out.Previous = pageURL(r, p.Page-1)
	}
	return out
}

// pageURL is the absolute URL of the request with its page replaced. The
// first page drops the parameter.
func pageURL(r *http.Request, page int) *string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: q.Encode(),
	}
	s := u.String()
	return &s
}
