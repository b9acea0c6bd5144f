// Package policy holds the task visibility and authorization rules. Every
// function here is pure: callers resolve the actor's role once per request
// and pass it in as a value.
package policy

import (
	"github.com/besimplit/task-tracker/internal/models"
)

// Role is derived from group membership and the superuser flag.
type Role int

const (
	RoleNone Role = iota
	RoleLimitedUser
	RoleAdministrator
)

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleLimitedUser:
		return "limited_user"
	default:
		return "none"
	}
}

// ResolveRole applies the precedence Administrator > Limited User > None.
func ResolveRole(isSuperuser bool, groups []string) Role {
	if isSuperuser {
		return RoleAdministrator
	}
	limited := false
	for _, g := range groups {
		switch g {
		case models.GroupAdministrator:
			return RoleAdministrator
		case models.GroupLimitedUser:
			limited = true
		}
	}
	if limited {
		return RoleLimitedUser
	}
	return RoleNone
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID uint64
	Email  string
	Role   Role
}

// NewActor builds an Actor from a user whose groups are preloaded.
func NewActor(u *models.User) Actor {
	return Actor{
		UserID: u.ID,
		Email:  u.Email,
		Role:   ResolveRole(u.IsSuperuser, u.GroupNames()),
	}
}

func (a Actor) IsAdministrator() bool {
	return a.Role == RoleAdministrator
}

type Action string

const (
	ActionList      Action = "list"
	ActionView      Action = "view"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionToggle    Action = "toggle"
	ActionDelete    Action = "delete"
	ActionDashboard Action = "dashboard"
	ActionExport    Action = "export"
)

type Decision int

const (
	Allow Decision = iota
	// DenyNotFound hides the task's existence from the actor.
	DenyNotFound
	DenyForbidden
)

// CanSee reports whether the task with the given assignee is in the actor's
// role-scoped set.
func CanSee(a Actor, assignedTo *uint64) bool {
	switch a.Role {
	case RoleAdministrator:
		return true
	case RoleLimitedUser:
		return assignedTo != nil && *assignedTo == a.UserID
	default:
		return false
	}
}

// Decide evaluates an action against a task. assignedTo is ignored for
// actions that do not target an existing task (list, create, dashboard,
// export) and for delete, whose role check precedes the task lookup.
func Decide(a Actor, action Action, assignedTo *uint64) Decision {
	switch action {
	case ActionList:
		return Allow
	case ActionView, ActionToggle:
		if CanSee(a, assignedTo) {
			return Allow
		}
		return DenyNotFound
	case ActionUpdate:
		if !CanSee(a, assignedTo) {
			return DenyNotFound
		}
		if a.IsAdministrator() {
			return Allow
		}
		return DenyForbidden
	case ActionCreate, ActionDelete, ActionDashboard, ActionExport:
		if a.IsAdministrator() {
			return Allow
		}
		return DenyForbidden
	default:
		return DenyForbidden
	}
}

// ListScope returns the assignee restriction for the actor's role-scoped set.
// visible is false when the actor can see no tasks at all.
func ListScope(a Actor) (assignedTo *uint64, visible bool) {
	switch a.Role {
	case RoleAdministrator:
		return nil, true
	case RoleLimitedUser:
		id := a.UserID
		return &id, true
	default:
		return nil, false
	}
}
