package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/inkwell-users/internal/auth"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
)

func withSubject(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), auth.SubjectContextKey, user)
	return r.WithContext(ctx)
}

func TestContextHelpers(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := auth.GetSubject(r)
		assert.False(t, ok)
		id, ok := auth.GetUserID(r)
		assert.False(t, ok)
		assert.Zero(t, id)
		assert.Empty(t, auth.CurrentUserEmail(r))
		assert.False(t, auth.IsAuthenticated(r))
	})

	t.Run("nil user", func(t *testing.T) {
		r := withSubject(httptest.NewRequest(http.MethodGet, "/", nil), nil)
		assert.False(t, auth.IsAuthenticated(r))
	})

	t.Run("authenticated", func(t *testing.T) {
		user := &models.User{ID: 123, Email: "test@example.com", Role: models.RoleViewer}
		r := withSubject(httptest.NewRequest(http.MethodGet, "/", nil), user)

		got, ok := auth.GetSubject(r)
		require.True(t, ok)
		assert.Same(t, user, got)
		id, ok := auth.GetUserID(r)
		assert.True(t, ok)
		assert.Equal(t, int64(123), id)
		assert.Equal(t, "test@example.com", auth.CurrentUserEmail(r))
		assert.True(t, auth.IsAuthenticated(r))
	})
}

func TestEnsureAuthenticated(t *testing.T) {
	user := &models.User{ID: 2, Email: "viewer@example.com", Role: models.RoleViewer}
	sm, _ := newTestManager(usersByID(user))
	protected := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("anonymous is redirected and target remembered", func(t *testing.T) {
		var cookie *http.Cookie
		rec := serve(sm, http.MethodGet, nil, func(w http.ResponseWriter, r *http.Request) {
			auth.EnsureAuthenticated(sm)(protected).ServeHTTP(w, r)
		})
		cookie = sessionCookie(rec)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, constants.LoginPath, rec.Header().Get(constants.HeaderLocation))

		var target string
		serve(sm, http.MethodGet, cookie, func(w http.ResponseWriter, r *http.Request) {
			target, _ = sm.TakeRedirect(r)
		})
		assert.Equal(t, "/page?x=1", target)
	})

	t.Run("subject passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := withSubject(httptest.NewRequest(http.MethodGet, "/", nil), user)

		auth.EnsureAuthenticated(sm)(protected).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}

func TestEnsureRole(t *testing.T) {
	sm, _ := newTestManager(usersByID())
	protected := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name     string
		user     *models.User
		required models.Role
		want     int
	}{
		{name: "anonymous", user: nil, required: models.RoleAdmin, want: http.StatusForbidden},
		{name: "wrong role", user: &models.User{ID: 1, Role: models.RoleViewer}, required: models.RoleAdmin, want: http.StatusForbidden},
		{name: "unknown role", user: &models.User{ID: 1, Role: models.Role("owner")}, required: models.RoleViewer, want: http.StatusForbidden},
		{name: "matching role", user: &models.User{ID: 1, Role: models.RoleEditor}, required: models.RoleEditor, want: http.StatusTeapot},
		{name: "admin satisfies any role", user: &models.User{ID: 1, Role: models.RoleAdmin}, required: models.RoleAuthor, want: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, constants.AdminPath, nil)
			if tt.user != nil {
				r = withSubject(r, tt.user)
			}
			rec := httptest.NewRecorder()

			auth.EnsureRole(sm, tt.required)(protected).ServeHTTP(rec, r)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Empty(t, rec.Header().Get(constants.HeaderLocation), "403 must not redirect")

				var body struct {
					Error struct {
						Code    string `json:"code"`
						Message string `json:"message"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, constants.CodeForbidden, body.Error.Code)
				assert.Equal(t, constants.MsgAccessDenied, body.Error.Message)
			}
		})
	}
}
