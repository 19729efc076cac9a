package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// TestSessionKey is a 38-character key accepted by NewSessionManager without warnings.
const TestSessionKey = "test-session-key-must-be-32-chars-long"

// NewSessionManager builds a cookie session manager for handler tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(TestSessionKey, "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// WithUser adds the given user to the request context, bypassing the session
// middleware.
func WithUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:   u.ID.Hex(),
		Name: u.FullName,
		Role: u.Role,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// PostForm creates a form-encoded POST request.
func PostForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// CarryCookies copies Set-Cookie values from rec onto req.
func CarryCookies(rec *httptest.ResponseRecorder, req *http.Request) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// Flashes returns the flash messages a handler stored in rec's session cookie.
func Flashes(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder) []auth.Flash {
	t.Helper()
	req := CarryCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return sm.Flashes(httptest.NewRecorder(), req)
}

// HasFlash reports whether rec carries a flash with the given message.
func HasFlash(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder, msg string) bool {
	t.Helper()
	for _, f := range Flashes(t, sm, rec) {
		if f.Message == msg {
			return true
		}
	}
	return false
}

// SessionUser returns the signed-in user stored in rec's session cookie, if any.
func SessionUser(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder) (*auth.SessionUser, bool) {
	t.Helper()
	var (
		got *auth.SessionUser
		ok  bool
	)
	capture := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentUser(r)
	}))
	capture.ServeHTTP(httptest.NewRecorder(), CarryCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	return got, ok
}

// RenderSafely runs fn, swallowing the panic raised when a handler renders
// before the template engine has been booted.
func RenderSafely(fn func()) {
	defer func() { recover() }()
	fn()
}
