package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

// SubjectLoader resolves a session's subject ID to a user.
type SubjectLoader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionManager attaches a server-side session to every request and
// restores the logged-in subject from it.
type SessionManager struct {
	store  SessionStore
	codec  *TokenCodec
	users  SubjectLoader
	cookie config.SessionSettings
	now    func() time.Time
}

// requestSession is the per-request view of the session kept in the context.
type requestSession struct {
	session *models.Session
	subject *models.User
}

// NewSessionManager creates a session manager.
//
// Parameters:
//   - store: Where sessions live between requests
//   - users: Resolves the subject ID stored in a session
//   - settings: Cookie name, secret, max age and the secure flag
//
// Returns:
//   - A SessionManager ready to wrap the router
func NewSessionManager(store SessionStore, users SubjectLoader, settings config.SessionSettings) *SessionManager {
	if settings.CookieName == "" {
		settings.CookieName = constants.DefaultSessionCookie
	}
	if settings.MaxAge <= 0 {
		settings.MaxAge = constants.DefaultSessionMaxAge
	}
	return &SessionManager{
		store:  store,
		codec:  NewTokenCodec(settings.Secret, constants.SessionTokenIssuer),
		users:  users,
		cookie: settings,
		now:    time.Now,
	}
}

// Middleware restores the session and subject for each request.
// Invalid or missing cookies yield a fresh anonymous session. Subject lookup
// failures leave the request unauthenticated rather than failing it.
// Every request except HEAD and OPTIONS slides the session expiry and
// re-issues the cookie.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := m.now()

		state := &requestSession{session: m.restore(ctx, r, now)}

		if state.session.Authenticated() {
			user, err := m.users.FindByID(ctx, state.session.SubjectID)
			switch {
			case err == nil:
				state.subject = user
			case utils.IsNotFoundError(err):
				log.Warn().Int64(constants.UserIDContextKey, state.session.SubjectID).
					Msg("Session subject no longer exists, clearing it")
				state.session.SubjectID = 0
			default:
				log.Warn().Err(err).Int64(constants.UserIDContextKey, state.session.SubjectID).
					Msg("Failed to restore session subject")
			}
		}

		if r.Method != http.MethodHead && r.Method != http.MethodOptions {
			state.session.Touch(now, m.cookie.MaxAge)
			if err := m.persist(ctx, w, state.session); err != nil {
				log.Error().Err(err).Msg("Failed to save session")
			}
		}

		ctx = context.WithValue(ctx, sessionContextKey, state)
		if state.subject != nil {
			ctx = context.WithValue(ctx, SubjectContextKey, state.subject)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restore loads the session named by the request cookie or starts a new one.
func (m *SessionManager) restore(ctx context.Context, r *http.Request, now time.Time) *models.Session {
	cookie, err := r.Cookie(m.cookie.CookieName)
	if err == nil && cookie.Value != "" {
		sessionID, err := m.codec.Decode(cookie.Value)
		if err != nil {
			log.Debug().Err(err).Msg("Discarding invalid session cookie")
		} else {
			session, found, err := m.store.Get(ctx, sessionID)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to load session")
			} else if found {
				return session
			}
		}
	}
	return models.NewSession(uuid.New().String(), now, m.cookie.MaxAge)
}

// persist saves the session and writes its cookie.
func (m *SessionManager) persist(ctx context.Context, w http.ResponseWriter, session *models.Session) error {
	if err := m.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	value, err := m.codec.Encode(session.ID, m.now(), session.ExpiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(m.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// save writes the request's session back to the store without touching the cookie.
func (m *SessionManager) save(r *http.Request, state *requestSession) error {
	if err := m.store.Save(r.Context(), state.session); err != nil {
		return utils.NewUpstreamError("save session", err)
	}
	return nil
}

func stateFrom(r *http.Request) (*requestSession, error) {
	state, ok := r.Context().Value(sessionContextKey).(*requestSession)
	if !ok {
		return nil, fmt.Errorf("session middleware not installed")
	}
	return state, nil
}

// Login attaches user to the session under a freshly issued session ID.
// Pending flashes survive; the old ID is invalidated.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	state, err := stateFrom(r)
	if err != nil {
		return err
	}

	oldID := state.session.ID
	now := m.now()

	rotated := state.session.Clone()
	rotated.ID = uuid.New().String()
	rotated.SubjectID = user.ID
	rotated.CreatedAt = now
	rotated.Touch(now, m.cookie.MaxAge)

	if err := m.persist(r.Context(), w, rotated); err != nil {
		return utils.NewUpstreamError("save session", err)
	}
	if err := m.store.Delete(r.Context(), oldID); err != nil {
		log.Warn().Err(err).Msg("Failed to delete pre-login session")
	}

	state.session = rotated
	state.subject = user
	return nil
}

// Logout destroys the session and expires the cookie.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	state, err := stateFrom(r)
	if err != nil {
		return err
	}

	if err := m.store.Delete(r.Context(), state.session.ID); err != nil {
		return utils.NewUpstreamError("delete session", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	state.session = models.NewSession(uuid.New().String(), m.now(), m.cookie.MaxAge)
	state.subject = nil
	return nil
}

// SetRedirect records where to send the user after the next successful login.
func (m *SessionManager) SetRedirect(r *http.Request, target string) error {
	state, err := stateFrom(r)
	if err != nil {
		return err
	}
	state.session.RedirectURL = target
	return m.save(r, state)
}

// TakeRedirect returns and clears the pending post-login redirect.
func (m *SessionManager) TakeRedirect(r *http.Request) (string, error) {
	state, err := stateFrom(r)
	if err != nil {
		return "", err
	}
	target := state.session.TakeRedirect()
	if target == "" {
		return "", nil
	}
	return target, m.save(r, state)
}

// AddFlash queues a one-shot message of the given kind.
func (m *SessionManager) AddFlash(r *http.Request, kind, message string) error {
	state, err := stateFrom(r)
	if err != nil {
		return err
	}
	state.session.AddFlash(kind, message)
	return m.save(r, state)
}

// Flashes returns and clears the queued messages of the given kind.
func (m *SessionManager) Flashes(r *http.Request, kind string) ([]string, error) {
	state, err := stateFrom(r)
	if err != nil {
		return nil, err
	}
	messages := state.session.TakeFlashes(kind)
	if len(messages) == 0 {
		return []string{}, nil
	}
	return messages, m.save(r, state)
}

// PurgeExpired removes expired sessions from the store.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int, error) {
	return m.store.PurgeExpired(ctx)
}
