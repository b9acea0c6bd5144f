package handlers

import (
	"context"
	"net/http"

	"github.com/besimplit/task-tracker/internal/dto"
	"github.com/stretchr/testify/assert"
)

type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// TestLogin_Success tests that login returns the identity with its derived role
func (suite *HandlerTestSuite) TestLogin_Success() {
	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ADMIN@example.com",
		"password": testPassword,
	}, nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var me dto.MeDTO
	suite.decode(w, &me)
	assert.Equal(suite.T(), suite.admin.ID, me.ID)
	assert.Equal(suite.T(), "administrator", me.Role)
	assert.Equal(suite.T(), []string{"Administrator"}, me.Groups)
	assert.NotEmpty(suite.T(), w.Result().Cookies())
}

// TestLogin_InvalidCredentials tests wrong password and unknown email
func (suite *HandlerTestSuite) TestLogin_InvalidCredentials() {
	for _, email := range []string{"admin@example.com", "ghost@example.com"} {
		w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    email,
			"password": "wrong-password",
		}, nil)

		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
		var body errorBody
		suite.decode(w, &body)
		assert.Equal(suite.T(), "INVALID_CREDENTIALS", body.Code)
	}
}

// TestLogin_InactiveUser tests that deactivated accounts cannot log in
func (suite *HandlerTestSuite) TestLogin_InactiveUser() {
	_, err := suite.authService.DeactivateUser(context.Background(), "usuario1@example.com")
	suite.Require().NoError(err)

	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "usuario1@example.com",
		"password": testPassword,
	}, nil)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	var body errorBody
	suite.decode(w, &body)
	assert.Equal(suite.T(), "ACCOUNT_INACTIVE", body.Code)
}

// TestLogin_InvalidBody tests binding error messages
func (suite *HandlerTestSuite) TestLogin_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": testPassword,
	}, nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var body errorBody
	suite.decode(w, &body)
	assert.Equal(suite.T(), "INVALID_INPUT", body.Code)
	assert.Equal(suite.T(), "email must be a valid email", body.Message)

	w = suite.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com"}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	suite.decode(w, &body)
	assert.Equal(suite.T(), "password is required", body.Message)
}

// TestMe tests the current user endpoint with and without a session
func (suite *HandlerTestSuite) TestMe() {
	w := suite.do(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	cookies := suite.login("usuario1@example.com")
	w = suite.do(http.MethodGet, "/api/auth/me", nil, cookies)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var me dto.MeDTO
	suite.decode(w, &me)
	assert.Equal(suite.T(), "usuario1@example.com", me.Email)
	assert.Equal(suite.T(), "limited_user", me.Role)
}

// TestLogout tests that the session no longer authenticates after logout
func (suite *HandlerTestSuite) TestLogout() {
	cookies := suite.login("admin@example.com")

	w := suite.do(http.MethodPost, "/api/auth/logout", nil, cookies)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestSession_RejectedAfterDeactivation tests that existing sessions stop working
func (suite *HandlerTestSuite) TestSession_RejectedAfterDeactivation() {
	cookies := suite.login("usuario1@example.com")

	_, err := suite.authService.DeactivateUser(context.Background(), "usuario1@example.com")
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/api/tasks", nil, cookies)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestIssueToken_BearerAccess tests API access with a bearer token
func (suite *HandlerTestSuite) TestIssueToken_BearerAccess() {
	w := suite.do(http.MethodPost, "/api/auth/token", map[string]string{
		"email":    "admin@example.com",
		"password": testPassword,
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Empty(suite.T(), w.Result().Cookies())

	var token dto.TokenResponse
	suite.decode(w, &token)
	assert.Equal(suite.T(), "Bearer", token.TokenType)
	assert.NotEmpty(suite.T(), token.Token)

	w = suite.do(http.MethodGet, "/api/auth/me", nil, nil, "Authorization", "Bearer "+token.Token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/auth/me", nil, nil, "Authorization", "Bearer not-a-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/auth/me", nil, nil, "Authorization", "Basic Zm9vOmJhcg==")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}
