package domain

import "time"

type Task struct {
	ID          string
	Title       string
	Description *string
	IsDone      bool

	// DeveloperID is the owner. Nil means the task is ownerless.
	DeveloperID *string
	// DeveloperUsername is filled in on reads; writes ignore it.
	DeveloperUsername *string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// OwnedBy reports whether userID owns the task.
func (t Task) OwnedBy(userID string) bool {
	return t.DeveloperID != nil && *t.DeveloperID == userID
}

// SyncCompletion restores the completed_at invariant after IsDone may have
// changed: done tasks keep the first completion time they were given, open
// tasks have none.
func (t *Task) SyncCompletion(now time.Time) {
	switch {
	case !t.IsDone:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		done := now
		t.CompletedAt = &done
	}
}

// TaskPatch is a partial update. Nil pointers leave the field unchanged.
type TaskPatch struct {
	Title *string

	// Description is applied when SetDescription is true; a nil value clears it.
	SetDescription bool
	Description    *string

	IsDone *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.SetDescription && p.IsDone == nil
}

// Apply mutates t with the patch, stamps UpdatedAt and re-derives
// CompletedAt.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.SetDescription {
		t.Description = p.Description
	}
	if p.IsDone != nil {
		t.IsDone = *p.IsDone
	}
	t.UpdatedAt = now
	t.SyncCompletion(now)
}
