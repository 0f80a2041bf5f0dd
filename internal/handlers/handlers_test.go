package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// MockAuthService is a mock implementation of AuthServiceInterface
type MockAuthService struct {
	AuthenticateFunc func(ctx context.Context, email, password string) (*models.User, error)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return m.AuthenticateFunc(ctx, email, password)
}

// MockPasswordResetService is a mock implementation of PasswordResetServiceInterface
type MockPasswordResetService struct {
	RequestResetFunc  func(ctx context.Context, email string) error
	ResetPasswordFunc func(ctx context.Context, token, password, confirm string) error
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	return m.RequestResetFunc(ctx, email)
}

func (m *MockPasswordResetService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return m.ResetPasswordFunc(ctx, token, password, confirm)
}

// MockSubjectLoader resolves session subjects from a fixed set of users
type MockSubjectLoader struct {
	users map[int64]*models.User
}

func (m *MockSubjectLoader) FindByID(_ context.Context, id int64) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, utils.NewNotFoundError("User", id)
}

// testApp wires the handlers behind a real session manager
type testApp struct {
	router   http.Handler
	sessions *auth.SessionManager
}

func newTestApp(authSvc AuthServiceInterface, resetSvc PasswordResetServiceInterface, users ...*models.User) *testApp {
	loader := &MockSubjectLoader{users: make(map[int64]*models.User)}
	for _, u := range users {
		loader.users[u.ID] = u
	}
	sm := auth.NewSessionManager(auth.NewMemorySessionStore(), loader, config.SessionSettings{
		Secret:     "handler-test-secret",
		CookieName: "test_session",
		MaxAge:     time.Hour,
	})

	authHandler := NewAuthHandler(authSvc, sm)
	resetHandler := NewPasswordResetHandler(resetSvc, sm)
	accountHandler := NewAccountHandler()

	r := chi.NewRouter()
	r.Use(sm.Middleware)
	r.Get(constants.LoginPath, authHandler.LoginPage)
	r.Post(constants.LoginPath, authHandler.Login)
	r.Get(constants.LogoutPath, authHandler.Logout)
	r.Get(constants.ForgotPasswordPath, resetHandler.ForgotPasswordPage)
	r.Post(constants.ForgotPasswordPath, resetHandler.ForgotPassword)
	r.Get(constants.ResetPasswordPath, resetHandler.ResetPasswordPage)
	r.Get(constants.ResetPasswordToken, resetHandler.ResetPasswordPage)
	r.Post(constants.ResetPasswordPath, resetHandler.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(auth.EnsureAuthenticated(sm))
		r.Get(constants.HomePath, accountHandler.Home)
		r.Get(constants.ActivatePath, accountHandler.ActivatePage)
		r.Post(constants.ActivatePath, accountHandler.Activate)
	})

	return &testApp{router: r, sessions: sm}
}

// browser replays the session cookie across requests
type browser struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.app.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test_session" {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeForm)
	return b.do(req)
}

func (b *browser) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	return b.do(req)
}

// decodeView extracts the view model from a JSON envelope
func decodeView(t *testing.T, body io.Reader) ViewModel {
	t.Helper()
	var envelope struct {
		Success bool      `json:"success"`
		Data    ViewModel `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

// decodeError extracts the error code from a JSON envelope
func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var envelope utils.Response
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}
