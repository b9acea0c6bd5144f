package policy

import (
	"testing"

	"github.com/besimplit/task-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func ptr(v uint64) *uint64 { return &v }

func TestResolveRole(t *testing.T) {
	cases := []struct {
		name      string
		superuser bool
		groups    []string
		want      Role
	}{
		{"no groups", false, nil, RoleNone},
		{"unknown group", false, []string{"Editors"}, RoleNone},
		{"limited", false, []string{models.GroupLimitedUser}, RoleLimitedUser},
		{"administrator", false, []string{models.GroupAdministrator}, RoleAdministrator},
		{"both groups", false, []string{models.GroupLimitedUser, models.GroupAdministrator}, RoleAdministrator},
		{"superuser without groups", true, nil, RoleAdministrator},
		{"superuser in limited group", true, []string{models.GroupLimitedUser}, RoleAdministrator},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRole(tc.superuser, tc.groups))
		})
	}
}

func TestNewActor(t *testing.T) {
	user := &models.User{
		ID:     7,
		Email:  "usuario1@besimplit.com",
		Groups: []models.Group{{Name: models.GroupLimitedUser}},
	}

	actor := NewActor(user)
	assert.Equal(t, uint64(7), actor.UserID)
	assert.Equal(t, "usuario1@besimplit.com", actor.Email)
	assert.Equal(t, RoleLimitedUser, actor.Role)
	assert.False(t, actor.IsAdministrator())
}

func TestDecide(t *testing.T) {
	admin := Actor{UserID: 1, Role: RoleAdministrator}
	limited := Actor{UserID: 2, Role: RoleLimitedUser}
	nobody := Actor{UserID: 3, Role: RoleNone}

	own := ptr(2)
	other := ptr(9)

	cases := []struct {
		name       string
		actor      Actor
		action     Action
		assignedTo *uint64
		want       Decision
	}{
		{"admin list", admin, ActionList, nil, Allow},
		{"limited list", limited, ActionList, nil, Allow},

		{"admin view any", admin, ActionView, other, Allow},
		{"admin view unassigned", admin, ActionView, nil, Allow},
		{"limited view own", limited, ActionView, own, Allow},
		{"limited view other", limited, ActionView, other, DenyNotFound},
		{"limited view unassigned", limited, ActionView, nil, DenyNotFound},
		{"none view", nobody, ActionView, ptr(3), DenyNotFound},

		{"admin create", admin, ActionCreate, nil, Allow},
		{"limited create", limited, ActionCreate, nil, DenyForbidden},
		{"none create", nobody, ActionCreate, nil, DenyForbidden},

		{"admin update", admin, ActionUpdate, other, Allow},
		{"limited update own", limited, ActionUpdate, own, DenyForbidden},
		{"limited update other", limited, ActionUpdate, other, DenyNotFound},

		{"admin toggle", admin, ActionToggle, other, Allow},
		{"limited toggle own", limited, ActionToggle, own, Allow},
		{"limited toggle other", limited, ActionToggle, other, DenyNotFound},

		{"admin delete", admin, ActionDelete, other, Allow},
		{"limited delete own", limited, ActionDelete, own, DenyForbidden},
		{"limited delete other", limited, ActionDelete, other, DenyForbidden},

		{"admin dashboard", admin, ActionDashboard, nil, Allow},
		{"limited dashboard", limited, ActionDashboard, nil, DenyForbidden},
		{"admin export", admin, ActionExport, nil, Allow},
		{"limited export", limited, ActionExport, nil, DenyForbidden},

		{"unknown action", admin, Action("archive"), nil, DenyForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.actor, tc.action, tc.assignedTo))
		})
	}
}

func TestListScope(t *testing.T) {
	scope, visible := ListScope(Actor{UserID: 1, Role: RoleAdministrator})
	assert.True(t, visible)
	assert.Nil(t, scope)

	scope, visible = ListScope(Actor{UserID: 2, Role: RoleLimitedUser})
	assert.True(t, visible)
	if assert.NotNil(t, scope) {
		assert.Equal(t, uint64(2), *scope)
	}

	_, visible = ListScope(Actor{UserID: 3, Role: RoleNone})
	assert.False(t, visible)
}
