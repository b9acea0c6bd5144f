package database

import (
	"testing"
	"time"

	"github.com/besimplit/task-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		require.NoError(t, Close(db))
	})
	return db
}

func TestEnsureGroups_Idempotent(t *testing.T) {
	db := openTestDB(t)

	groups, created, err := EnsureGroups(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.GroupAdministrator, models.GroupLimitedUser}, created)
	assert.NotZero(t, groups[models.GroupAdministrator].ID)
	assert.NotZero(t, groups[models.GroupLimitedUser].ID)

	again, created, err := EnsureGroups(db)
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Equal(t, groups[models.GroupAdministrator].ID, again[models.GroupAdministrator].ID)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSeedDemoTasks(t *testing.T) {
	db := openTestDB(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	removed, created, err := SeedDemoTasks(db, SeedDemoTasksInput{
		Count:       len(demoTasks) + 2,
		AssigneeIDs: []uint64{10, 11},
		CreatorID:   1,
		Now:         now,
	})
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, len(demoTasks)+2, created)

	var tasks []models.Task
	require.NoError(t, db.Scopes(DefaultTaskOrder).Find(&tasks).Error)
	require.Len(t, tasks, len(demoTasks)+2)

	newest := tasks[0]
	assert.Equal(t, demoTasks[1].Title+" (2)", newest.Title)
	assert.Equal(t, now.Add(-time.Hour), newest.CreatedAt.UTC())
	assert.Equal(t, newest.CreatedAt, newest.UpdatedAt)
	require.NotNil(t, newest.CreatedByID)
	assert.Equal(t, uint64(1), *newest.CreatedByID)

	var assignedTo10 int64
	require.NoError(t, db.Model(&models.Task{}).Where("assigned_to_id = ?", 10).Count(&assignedTo10).Error)
	assert.Equal(t, int64((len(demoTasks)+3)/2), assignedTo10)

	removed, created, err = SeedDemoTasks(db, SeedDemoTasksInput{Count: 3, Clear: true, Now: now})
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoTasks)+2), removed)
	assert.Equal(t, 3, created)
}

func TestSearchTasks_EscapesWildcards(t *testing.T) {
	db := openTestDB(t)

	now := time.Now().UTC()
	for _, title := range []string{"100% done", "1000 items", "snake_case", "snakeXcase"} {
		require.NoError(t, db.Create(&models.Task{Title: title, CreatedAt: now, UpdatedAt: now}).Error)
	}

	var percent []models.Task
	require.NoError(t, db.Scopes(SearchTasks("100%", false)).Find(&percent).Error)
	require.Len(t, percent, 1)
	assert.Equal(t, "100% done", percent[0].Title)

	var underscore []models.Task
	require.NoError(t, db.Scopes(SearchTasks("E_C", false)).Find(&underscore).Error)
	require.Len(t, underscore, 1)
	assert.Equal(t, "snake_case", underscore[0].Title)
}

func TestSearchTasks_FoldsNonASCII(t *testing.T) {
	db := openTestDB(t)

	now := time.Now().UTC()
	for _, title := range []string{"Café ÉTÉ", "Cafe ete", "ÑANDÚ census"} {
		require.NoError(t, db.Create(&models.Task{Title: title, CreatedAt: now, UpdatedAt: now}).Error)
	}

	var summer []models.Task
	require.NoError(t, db.Scopes(SearchTasks("été", false)).Find(&summer).Error)
	require.Len(t, summer, 1)
	assert.Equal(t, "Café ÉTÉ", summer[0].Title)

	var bird []models.Task
	require.NoError(t, db.Scopes(SearchTasks("ñandú", false)).Find(&bird).Error)
	require.Len(t, bird, 1)
	assert.Equal(t, "ÑANDÚ census", bird[0].Title)

	var ascii []models.Task
	require.NoError(t, db.Scopes(SearchTasks("CAFE", false)).Find(&ascii).Error)
	require.Len(t, ascii, 1)
	assert.Equal(t, "Cafe ete", ascii[0].Title)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, logger.Info, ParseLogLevel("info"))
	assert.Equal(t, logger.Warn, ParseLogLevel("whatever"))
}
