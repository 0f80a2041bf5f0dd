package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

var userColumns = []string{"user_id", "email", "password_hash", "role", "created_at", "updated_at"}

// testClient keeps cookies and never follows redirects
type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestClient(t *testing.T, s *Server) *testClient {
	ts := httptest.NewServer(s.GetRouter())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:    t,
		base: ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) get(p string) (*http.Response, map[string]interface{}) {
	resp, err := c.client.Get(c.base + p)
	require.NoError(c.t, err)
	return resp, decodeBody(c.t, resp)
}

func (c *testClient) postForm(p string, form url.Values) (*http.Response, map[string]interface{}) {
	resp, err := c.client.PostForm(c.base+p, form)
	require.NoError(c.t, err)
	return resp, decodeBody(c.t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	if !strings.HasPrefix(resp.Header.Get(constants.HeaderContentType), constants.ContentTypeJSON) {
		return nil
	}
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func viewData(t *testing.T, body map[string]interface{}) map[string]interface{} {
	require.NotNil(t, body)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data envelope: %v", body)
	return data
}

func TestHealthRoute(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name: "healthy",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing()
				mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "database down",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing().WillReturnError(errors.New("connection refused"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock, _ := newTestServer(t, createTestConfig())
			tt.setup(mock)

			rec := httptest.NewRecorder()
			s.GetRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.HealthPath, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies(), "health checks never create sessions")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVersionRoute(t *testing.T) {
	s, _, _ := newTestServer(t, createTestConfig())

	rec := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constants.VersionPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.FrameOptionsDeny, rec.Header().Get(constants.HeaderXFrameOptions))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	data := viewData(t, body)
	assert.Equal(t, "1.2.3", data["version"])
	assert.Equal(t, constants.EnvTesting, data["environment"])
}

func TestUnknownRoutes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{"unknown path", http.MethodGet, "/no-such-page", http.StatusNotFound, constants.CodeNotFound},
		{"wrong method", http.MethodDelete, constants.VersionPath, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed},
	}

	s, _, _ := newTestServer(t, createTestConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.GetRouter().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, tt.expectedStatus, rec.Code)

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.expectedCode, body.Error.Code)
		})
	}
}

func TestProtectedRoutes_Anonymous(t *testing.T) {
	s, _, _ := newTestServer(t, createTestConfig())
	c := newTestClient(t, s)

	resp, _ := c.get(constants.HomePath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, constants.LoginPath, resp.Header.Get(constants.HeaderLocation))

	resp, _ = c.get(constants.ActivatePath)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body := c.get(constants.AdminPath)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestAuthPages_NoStore(t *testing.T) {
	s, _, _ := newTestServer(t, createTestConfig())
	c := newTestClient(t, s)

	for _, p := range []string{constants.LoginPath, constants.ForgotPasswordPath, constants.ResetPasswordPath} {
		resp, body := c.get(p)
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
		assert.Equal(t, constants.CacheControlNoStore, resp.Header.Get(constants.HeaderCacheControl), p)
		assert.NotEmpty(t, viewData(t, body)["view"], p)
	}
}

func TestAuthRoutes_RateLimited(t *testing.T) {
	cfg := createTestConfig()
	cfg.Security.AuthRatePerSecond = 0.001
	cfg.Security.AuthBurst = 2

	s, _, _ := newTestServer(t, cfg)
	c := newTestClient(t, s)

	// invalid bodies never reach the database
	for i := 0; i < 2; i++ {
		resp, _ := c.postForm(constants.LoginPath, url.Values{})
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	}

	resp, body := c.postForm(constants.LoginPath, url.Values{})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(constants.HeaderRetryAfter))
	errBody, _ := body["error"].(map[string]interface{})
	assert.Equal(t, constants.CodeRateLimited, errBody["code"])

	// the login page itself is not throttled
	resp, _ = c.get(constants.LoginPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordResetFlow_EndToEnd(t *testing.T) {
	s, mock, notifier := newTestServer(t, createTestConfig())
	c := newTestClient(t, s)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	userRow := func(hash string) *sqlmock.Rows {
		return sqlmock.NewRows(userColumns).AddRow(7, "writer@example.com", hash, "editor", created, created)
	}

	// 1. request a reset link
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("writer@example.com").
		WillReturnRows(userRow("$2a$04$oldhasholdhasholdhasholdhasholdhasholdhasholdhashold"))

	resp, _ := c.postForm(constants.ForgotPasswordPath, url.Values{"email": {"Writer@Example.com"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, constants.ForgotPasswordPath, resp.Header.Get(constants.HeaderLocation))

	sent, ok := notifier.last()
	require.True(t, ok, "reset email was not sent")
	assert.Equal(t, "writer@example.com", sent.Email)
	assert.True(t, strings.HasPrefix(sent.Link, "http://localhost:3000/reset-password/"), sent.Link)
	token := path.Base(sent.Link)

	_, body := c.get(constants.ForgotPasswordPath)
	assert.Equal(t, []interface{}{constants.MsgCheckEmail}, viewData(t, body)["message"])

	// 2. open the link
	resp, body = c.get(constants.ResetPasswordPath + "/" + token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, token, viewData(t, body)["token"])

	// 3. choose a new password
	var newHash string
	mock.ExpectQuery(`FROM users WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnRows(userRow("$2a$04$oldhasholdhasholdhasholdhasholdhasholdhasholdhashold"))
	mock.ExpectExec(`UPDATE users`).
		WithArgs("writer@example.com", captureArg{&newHash}, "editor", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reset := url.Values{"token": {token}, "password": {"brand new secret"}, "confirm": {"brand new secret"}}
	resp, _ = c.postForm(constants.ResetPasswordPath, reset)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, constants.ResetPasswordPath, resp.Header.Get(constants.HeaderLocation))
	require.True(t, strings.HasPrefix(newHash, "$2a$"), "password must be stored hashed, got %q", newHash)

	_, body = c.get(constants.ResetPasswordPath)
	assert.Equal(t, []interface{}{constants.MsgPasswordChanged}, viewData(t, body)["message"])

	// 4. the token is spent
	resp, _ = c.postForm(constants.ResetPasswordPath, reset)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, body = c.get(constants.ResetPasswordPath)
	assert.Equal(t, []interface{}{constants.MsgInvalidToken}, viewData(t, body)["error"])

	// 5. log in with the new password and reach the home page
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("writer@example.com").
		WillReturnRows(userRow(newHash))

	resp, _ = c.postForm(constants.LoginPath, url.Values{"email": {"writer@example.com"}, "password": {"brand new secret"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, constants.HomePath, resp.Header.Get(constants.HeaderLocation))

	mock.ExpectQuery(`FROM users WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnRows(userRow(newHash))

	resp, body = c.get(constants.HomePath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := viewData(t, body)["user"].(map[string]interface{})
	assert.Equal(t, "writer@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	assert.NoError(t, mock.ExpectationsWereMet())
}
