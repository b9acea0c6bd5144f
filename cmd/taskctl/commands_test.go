package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/besimplit/task-tracker/internal/database"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fileOpener opens a fresh connection to the same sqlite file on every run
func fileOpener(t *testing.T) (opener, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskctl.db")
	return func(context.Context) (*gorm.DB, error) {
		return database.OpenSQLite(path)
	}, path
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func inspect(t *testing.T, path string, fn func(db *gorm.DB)) {
	t.Helper()
	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	defer database.Close(db)
	fn(db)
}

// TestSetupGroups tests that groups are created once
func TestSetupGroups(t *testing.T) {
	open, _ := fileOpener(t)

	out, err := run(t, open, "setup-groups")
	require.NoError(t, err)
	assert.Contains(t, out, `Group "Administrator" created`)
	assert.Contains(t, out, `Group "Limited User" created`)

	out, err = run(t, open, "setup-groups")
	require.NoError(t, err)
	assert.Contains(t, out, `Group "Administrator" already exists`)
}

// TestCreateUser tests user provisioning from flags
func TestCreateUser(t *testing.T) {
	open, path := fileOpener(t)
	_, err := run(t, open, "setup-groups")
	require.NoError(t, err)

	out, err := run(t, open, "create-user", "--email", "Boss@Example.com", "--password", "secret123", "--admin")
	require.NoError(t, err)
	assert.Contains(t, out, "User boss@example.com created")

	_, err = run(t, open, "create-user", "--email", "boss@example.com", "--password", "secret123")
	assert.Error(t, err)

	_, err = run(t, open, "create-user", "--email", "x@example.com", "--password", "secret123", "--admin", "--limited")
	assert.Error(t, err)

	inspect(t, path, func(db *gorm.DB) {
		var user models.User
		require.NoError(t, db.Preload("Groups").Where("email = ?", "boss@example.com").First(&user).Error)
		assert.True(t, user.IsActive)
		assert.Equal(t, []string{models.GroupAdministrator}, user.GroupNames())
	})
}

// TestSeedDemo tests demo users and round-robin tasks
func TestSeedDemo(t *testing.T) {
	open, path := fileOpener(t)

	out, err := run(t, open, "seed-demo", "--count", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "User admin@besimplit.com created")
	assert.Contains(t, out, "Created 4 demo tasks")

	out, err = run(t, open, "seed-demo", "--count", "2", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "User admin@besimplit.com already exists")
	assert.Contains(t, out, "Removed 4 existing tasks")

	inspect(t, path, func(db *gorm.DB) {
		var tasks []models.Task
		require.NoError(t, db.Order("id ASC").Find(&tasks).Error)
		require.Len(t, tasks, 2)
		require.NotNil(t, tasks[0].AssignedToID)
		require.NotNil(t, tasks[1].AssignedToID)
		assert.NotEqual(t, *tasks[0].AssignedToID, *tasks[1].AssignedToID)
	})
}

// TestDeactivateAndDeleteUser tests the account lifecycle commands
func TestDeactivateAndDeleteUser(t *testing.T) {
	open, path := fileOpener(t)
	_, err := run(t, open, "seed-demo", "--count", "3")
	require.NoError(t, err)

	out, err := run(t, open, "deactivate-user", "usuario1@besimplit.com")
	require.NoError(t, err)
	assert.Contains(t, out, "User usuario1@besimplit.com deactivated")

	out, err = run(t, open, "delete-user", "USUARIO1@besimplit.com")
	require.NoError(t, err)
	assert.Contains(t, out, "User usuario1@besimplit.com deleted")

	_, err = run(t, open, "delete-user", "usuario1@besimplit.com")
	assert.Error(t, err)

	inspect(t, path, func(db *gorm.DB) {
		var tasks int64
		require.NoError(t, db.Model(&models.Task{}).Count(&tasks).Error)
		assert.Equal(t, int64(3), tasks)

		var unassigned int64
		require.NoError(t, db.Model(&models.Task{}).Where("assigned_to_id IS NULL").Count(&unassigned).Error)
		assert.Equal(t, int64(2), unassigned)
	})
}
