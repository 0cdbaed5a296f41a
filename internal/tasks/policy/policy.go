// Package policy decides who may do what to which task. Every function is
// pure: it looks only at the actor and, where relevant, the task, and
// returns nil to allow or a *Denial to refuse.
package policy

import (
	"errors"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
)

// Reasons shown to callers. Clients match on the text, so keep them stable.
const (
	ReasonAccessDenied = "Access denied"
	ReasonLeadCreate   = "Leads cannot create tasks"
	ReasonLeadUpdate   = "Leads cannot update tasks"
	ReasonLeadDelete   = "Leads cannot delete tasks"
)

// ErrDenied is the sentinel every Denial unwraps to.
var ErrDenied = errors.New("policy: denied")

type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Denial is a refused action with the reason to show the caller.
type Denial struct {
	Action Action
	Reason string
}

func (d *Denial) Error() string { return "policy: " + string(d.Action) + ": " + d.Reason }
func (d *Denial) Unwrap() error { return ErrDenied }

func deny(a Action, reason string) error { return &Denial{Action: a, Reason: reason} }

// Scope is the subset of tasks an actor may list. A nil DeveloperID means
// every task.
type Scope struct {
	DeveloperID *string
}

// CanListTasks always allows an authenticated actor. What differs is the
// scope, see ListScope.
func CanListTasks(actor domain.Actor) error {
	if !actor.Role.Valid() {
		return deny(ActionList, ReasonAccessDenied)
	}
	return nil
}

// ListScope returns the tasks an actor sees before any filter applies. Leads
// see everything, developers only their own.
func ListScope(actor domain.Actor) Scope {
	if actor.IsLead() {
		return Scope{}
	}
	id := actor.ID
	return Scope{DeveloperID: &id}
}

func CanCreateTask(actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleDeveloper:
		return nil
	case domain.RoleLead:
		return deny(ActionCreate, ReasonLeadCreate)
	}
	return deny(ActionCreate, ReasonAccessDenied)
}

func CanViewTask(actor domain.Actor, task domain.Task) error {
	switch {
	case actor.IsLead():
		return nil
	case actor.IsDeveloper() && task.OwnedBy(actor.ID):
		return nil
	}
	return deny(ActionView, ReasonAccessDenied)
}

func CanUpdateTask(actor domain.Actor, task domain.Task) error {
	return canWrite(ActionUpdate, ReasonLeadUpdate, actor, task)
}

func CanDeleteTask(actor domain.Actor, task domain.Task) error {
	return canWrite(ActionDelete, ReasonLeadDelete, actor, task)
}

// Writes on an existing task belong to its owning developer alone.
func canWrite(a Action, leadReason string, actor domain.Actor, task domain.Task) error {
	switch {
	case actor.IsLead():
		return deny(a, leadReason)
	case actor.IsDeveloper() && task.OwnedBy(actor.ID):
		return nil
	}
	return deny(a, ReasonAccessDenied)
}

// Owner returns the developer a new task is assigned to. Whatever the caller
// asked for is ignored: developers always own what they create.
func Owner(actor domain.Actor) string {
	return actor.ID
}
