package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	userNameKey = "user_name"
	userRoleKey = "user_role"
)

// LoginPath is where every denied request is sent.
const LoginPath = "/login"

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the authenticated identity carried in the session cookie and
// injected into r.Context() by LoadSessionUser.
type SessionUser struct {
	ID   string
	Name string
	Role string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser returns a copy of r carrying u as the current user. Handler
// tests use it to bypass the cookie round trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the signed cookie store and the middleware that reads
// it. One instance is built in bootstrap and shared by every feature.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure + SameSite=None; in local dev
// over http://localhost they are SameSite=Lax so the browser accepts them.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "clubhub-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	store.MaxAge(opts.MaxAge)

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Name is the session cookie name.
func (m *SessionManager) Name() string { return m.name }

// GetSession returns the request's session. On a decode failure (tampered or
// rotated key) it still returns a usable fresh session alongside the error.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// session is GetSession with decode failures logged and swallowed.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := m.GetSession(r)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			m.log.Debug("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Warn("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// SetUser marks sess as authenticated for u. The caller saves the session.
func SetUser(sess *sessions.Session, u SessionUser) {
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userRoleKey] = strings.ToLower(u.Role)
}

// ClearUser removes every value from sess, flashes included.
func ClearUser(sess *sessions.Session) {
	for k := range sess.Values {
		delete(sess.Values, k)
	}
}

// SignIn binds u to the caller's session and optionally queues a flash, in a
// single cookie write.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser, flash *Flash) error {
	sess := m.session(r)
	SetUser(sess, u)
	if flash != nil {
		sess.AddFlash(*flash)
	}
	return sess.Save(r, w)
}

// SignOut clears the caller's session unconditionally. A flash may be queued
// on the emptied session so the login page can show it.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request, flash *Flash) error {
	sess := m.session(r)
	ClearUser(sess)
	if flash != nil {
		sess.AddFlash(*flash)
	}
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser validates the session cookie once and injects the user into
// the request context if they are logged in.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.session(r)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:   getString(sess, userIDKey),
				Name: getString(sess, userNameKey),
				Role: getString(sess, userRoleKey),
			}
			if u.ID != "" {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn lets the request through only when LoadSessionUser found a
// user. Otherwise it flashes a prompt and redirects to the login page.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		m.deny(w, r, Flash{Kind: FlashWarning, Message: "Please login first"})
	})
}

// RequireRole lets the request through only for a signed-in user whose role
// is in allowed. Missing sessions and wrong roles get the same response: an
// "Access denied!" flash and a redirect to the login page.
func (m *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := CurrentUser(r); ok {
				if _, has := set[strings.ToLower(u.Role)]; has {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.deny(w, r, Flash{Kind: FlashDanger, Message: "Access denied!"})
		})
	}
}

func (m *SessionManager) deny(w http.ResponseWriter, r *http.Request, f Flash) {
	m.AddFlash(w, r, f.Kind, f.Message)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// helpers

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
