package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/besimplit/task-tracker/internal/dto"
	"github.com/stretchr/testify/assert"
)

// TestDashboard_AdministratorOnly tests the role guard on admin routes
func (suite *HandlerTestSuite) TestDashboard_AdministratorOnly() {
	cookies := suite.login("usuario1@example.com")

	for _, url := range []string{"/api/dashboard", "/api/users/assignable", "/api/export/csv"} {
		w := suite.do(http.MethodGet, url, nil, cookies)
		assert.Equal(suite.T(), http.StatusForbidden, w.Code, url)
	}
}

// TestDashboard tests statistics and filters of the administrator overview
func (suite *HandlerTestSuite) TestDashboard() {
	suite.createTask("Write report", suite.limited1)
	suite.createTask("Review budget", suite.limited1)
	suite.createTask("Plan sprint", suite.limited2)
	suite.createTask("Unassigned work", nil)
	cookies := suite.login("admin@example.com")

	w := suite.do(http.MethodGet, "/api/dashboard", nil, cookies)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp dto.DashboardResponse
	suite.decode(w, &resp)
	assert.Len(suite.T(), resp.Tasks, 4)
	assert.Equal(suite.T(), int64(4), resp.Stats.Total)
	suite.Require().Len(resp.UserStats, 2)
	assert.Equal(suite.T(), "usuario1@example.com", resp.UserStats[0].User.Email)
	assert.Equal(suite.T(), int64(2), resp.UserStats[0].Total)
	assert.Len(suite.T(), resp.AssignableUsers, 2)

	w = suite.do(http.MethodGet, "/api/dashboard?search=USUARIO2", nil, cookies)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	assert.Equal(suite.T(), "Plan sprint", resp.Tasks[0].Title)
	assert.Equal(suite.T(), int64(4), resp.Stats.Total)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/dashboard?user=%d", suite.limited1.ID), nil, cookies)
	suite.decode(w, &resp)
	assert.Len(suite.T(), resp.Tasks, 2)

	w = suite.do(http.MethodGet, "/api/dashboard?user=abc", nil, cookies)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAssignableUsers tests that only limited users are listed
func (suite *HandlerTestSuite) TestAssignableUsers() {
	w := suite.do(http.MethodGet, "/api/users/assignable", nil, suite.login("admin@example.com"))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp struct {
		Users []dto.UserDTO `json:"users"`
	}
	suite.decode(w, &resp)
	suite.Require().Len(resp.Users, 2)
	assert.Equal(suite.T(), "usuario1@example.com", resp.Users[0].Email)
	assert.Equal(suite.T(), "usuario2@example.com", resp.Users[1].Email)
}

// TestExport tests the download headers of each report format
func (suite *HandlerTestSuite) TestExport() {
	suite.createTask("Write report", suite.limited1)
	cookies := suite.login("admin@example.com")

	tests := []struct {
		format      string
		contentType string
	}{
		{"csv", "text/csv; charset=utf-8"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"pdf", "application/pdf"},
	}

	for _, tt := range tests {
		w := suite.do(http.MethodGet, "/api/export/"+tt.format, nil, cookies)
		assert.Equal(suite.T(), http.StatusOK, w.Code, tt.format)
		assert.Equal(suite.T(), tt.contentType, w.Header().Get("Content-Type"), tt.format)

		disposition := w.Header().Get("Content-Disposition")
		assert.True(suite.T(), strings.HasPrefix(disposition, `attachment; filename="tasks_`), disposition)
		assert.True(suite.T(), strings.HasSuffix(disposition, "."+tt.format+`"`), disposition)
		assert.NotZero(suite.T(), w.Body.Len(), tt.format)
	}

	w := suite.do(http.MethodGet, "/api/export/csv", nil, cookies)
	assert.True(suite.T(), strings.HasPrefix(w.Body.String(), "\ufeffID,Title,"))
	assert.Contains(suite.T(), w.Body.String(), "Write report")

	w = suite.do(http.MethodGet, "/api/export/docx", nil, cookies)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestHealth tests the liveness and readiness probes
func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var resp struct {
		Status       string                      `json:"status"`
		Dependencies map[string]dependencyStatus `json:"dependencies"`
	}
	suite.decode(w, &resp)
	assert.Equal(suite.T(), "ok", resp.Status)
	assert.Equal(suite.T(), "ok", resp.Dependencies["database"].Status)
	_, hasRedis := resp.Dependencies["redis"]
	assert.False(suite.T(), hasRedis)
}

// TestHealth_DatabaseDown tests that readiness reports 503 when the store is gone
func (suite *HandlerTestSuite) TestHealth_DatabaseDown() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())

	w := suite.do(http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)

	var body errorBody
	suite.decode(w, &body)
	assert.Equal(suite.T(), "SERVICE_UNAVAILABLE", body.Code)
}
