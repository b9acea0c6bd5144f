package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/besimplit/task-tracker/internal/dto"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func taskURL(id uint64, suffix ...string) string {
	return fmt.Sprintf("/api/tasks/%d%s", id, strings.Join(suffix, ""))
}

// TestListTasks_RequiresAuth tests that anonymous requests are rejected
func (suite *HandlerTestSuite) TestListTasks_RequiresAuth() {
	w := suite.do(http.MethodGet, "/api/tasks", nil, nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	var body errorBody
	suite.decode(w, &body)
	assert.Equal(suite.T(), "UNAUTHORIZED", body.Code)
}

// TestListTasks_LimitedUserScope tests that a limited user only sees own tasks
func (suite *HandlerTestSuite) TestListTasks_LimitedUserScope() {
	suite.createTask("Write report", suite.limited1)
	suite.createTask("Review budget", suite.limited2)
	suite.createTask("Plan sprint", nil)

	w := suite.do(http.MethodGet, "/api/tasks", nil, suite.login("usuario1@example.com"))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	assert.Equal(suite.T(), "Write report", resp.Tasks[0].Title)
	assert.Equal(suite.T(), int64(1), resp.Stats.Total)

	w = suite.do(http.MethodGet, "/api/tasks", nil, suite.login("admin@example.com"))
	suite.decode(w, &resp)
	assert.Len(suite.T(), resp.Tasks, 3)
	assert.Equal(suite.T(), "Plan sprint", resp.Tasks[0].Title)
	suite.Require().NotNil(resp.Tasks[1].AssignedTo)
	assert.Equal(suite.T(), "usuario2@example.com", resp.Tasks[1].AssignedTo.Email)
}

// TestListTasks_Filters tests search, status and the legacy completed alias
func (suite *HandlerTestSuite) TestListTasks_Filters() {
	suite.createTask("Write report", suite.limited1)
	doneID := suite.createTask("Review budget", suite.limited1)
	cookies := suite.login("usuario1@example.com")

	w := suite.do(http.MethodPost, taskURL(doneID, "/toggle"), nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	w = suite.do(http.MethodGet, "/api/tasks?status=completed", nil, cookies)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	assert.Equal(suite.T(), doneID, resp.Tasks[0].ID)
	assert.Equal(suite.T(), int64(2), resp.Stats.Total)
	assert.Equal(suite.T(), int64(1), resp.Stats.Completed)
	assert.Equal(suite.T(), 50.0, resp.Stats.CompletionRate)

	w = suite.do(http.MethodGet, "/api/tasks?completed=false", nil, cookies)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	assert.Equal(suite.T(), "Write report", resp.Tasks[0].Title)

	w = suite.do(http.MethodGet, "/api/tasks?search=BUDGET", nil, cookies)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	assert.Equal(suite.T(), "Review budget", resp.Tasks[0].Title)

	w = suite.do(http.MethodGet, "/api/tasks?status=archived", nil, cookies)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var body errorBody
	suite.decode(w, &body)
	assert.Equal(suite.T(), "status", body.Details["field"])
}

// TestCreateTask_Success tests task creation by an administrator
func (suite *HandlerTestSuite) TestCreateTask_Success() {
	assignee := suite.limited1.ID
	w := suite.do(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":          "  Prepare demo  ",
		"description":    "Slides and script",
		"assigned_to_id": assignee,
	}, suite.login("admin@example.com"))

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var task dto.TaskDTO
	suite.decode(w, &task)
	assert.Equal(suite.T(), "Prepare demo", task.Title)
	assert.False(suite.T(), task.Completed)
	suite.Require().NotNil(task.AssignedToID)
	assert.Equal(suite.T(), assignee, *task.AssignedToID)
	suite.Require().NotNil(task.CreatedByID)
	assert.Equal(suite.T(), suite.admin.ID, *task.CreatedByID)
	assert.Equal(suite.T(), task.CreatedAt, task.UpdatedAt)
	assert.NotEmpty(suite.T(), task.CreatedAtFormatted)
}

// TestCreateTask_ValidationErrors tests field and rule details
func (suite *HandlerTestSuite) TestCreateTask_ValidationErrors() {
	cookies := suite.login("admin@example.com")

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
		rule  string
	}{
		{"empty title", map[string]interface{}{"title": "   "}, "title", "required"},
		{"short title", map[string]interface{}{"title": "ab"}, "title", "min_length"},
		{"long title", map[string]interface{}{"title": strings.Repeat("x", 201)}, "title", "max_length"},
		{"admin assignee", map[string]interface{}{"title": "Valid title", "assigned_to_id": suite.admin.ID}, "assigned_to_id", "invalid_assignee"},
	}

	for _, tt := range tests {
		w := suite.do(http.MethodPost, "/api/tasks", tt.body, cookies)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, tt.name)

		var body errorBody
		suite.decode(w, &body)
		assert.Equal(suite.T(), "INVALID_INPUT", body.Code, tt.name)
		assert.Equal(suite.T(), tt.field, body.Details["field"], tt.name)
		assert.Equal(suite.T(), tt.rule, body.Details["rule"], tt.name)
	}

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTask_LimitedUserForbidden tests that limited users cannot create
func (suite *HandlerTestSuite) TestCreateTask_LimitedUserForbidden() {
	w := suite.do(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title": "My own task",
	}, suite.login("usuario1@example.com"))

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetTask tests visibility of a single task
func (suite *HandlerTestSuite) TestGetTask() {
	ownID := suite.createTask("Write report", suite.limited1)
	otherID := suite.createTask("Review budget", suite.limited2)
	cookies := suite.login("usuario1@example.com")

	w := suite.do(http.MethodGet, taskURL(ownID), nil, cookies)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, taskURL(otherID), nil, cookies)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, taskURL(9999), nil, cookies)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/tasks/abc", nil, cookies)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTask tests full replacement and authorization
func (suite *HandlerTestSuite) TestUpdateTask() {
	id := suite.createTask("Write report", suite.limited1)

	w := suite.do(http.MethodPut, taskURL(id), map[string]interface{}{
		"title": "Write quarterly report",
	}, suite.login("usuario1@example.com"))
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPut, taskURL(id), map[string]interface{}{
		"title":       "Write quarterly report",
		"description": "Q3",
	}, suite.login("admin@example.com"))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.decode(w, &task)
	assert.Equal(suite.T(), "Write quarterly report", task.Title)
	assert.Equal(suite.T(), "Q3", task.Description)
	assert.Nil(suite.T(), task.AssignedToID)
	assert.True(suite.T(), task.UpdatedAt.After(task.CreatedAt))
}

// TestToggleTask tests toggling and the completion notification
func (suite *HandlerTestSuite) TestToggleTask() {
	id := suite.createTask("Write report", suite.limited1)
	otherID := suite.createTask("Review budget", suite.limited2)
	cookies := suite.login("usuario1@example.com")

	w := suite.do(http.MethodPatch, taskURL(id, "/toggle"), nil, cookies)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var resp dto.ToggleResponse
	suite.decode(w, &resp)
	assert.Equal(suite.T(), id, resp.ID)
	assert.True(suite.T(), resp.Completed)
	assert.Equal(suite.T(), 1, suite.mailer.count())

	w = suite.do(http.MethodPost, taskURL(id, "/toggle"), nil, cookies)
	suite.decode(w, &resp)
	assert.False(suite.T(), resp.Completed)
	assert.Equal(suite.T(), 1, suite.mailer.count())

	w = suite.do(http.MethodPost, taskURL(otherID, "/toggle"), nil, cookies)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteTask tests deletion rules
func (suite *HandlerTestSuite) TestDeleteTask() {
	id := suite.createTask("Write report", suite.limited1)

	w := suite.do(http.MethodDelete, taskURL(id), nil, suite.login("usuario1@example.com"))
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	admin := suite.login("admin@example.com")
	w = suite.do(http.MethodDelete, taskURL(id), nil, admin)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, taskURL(id), nil, admin)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}
