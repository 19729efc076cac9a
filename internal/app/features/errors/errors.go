// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status    int
	Message   string
	Reference string
}

// ErrorLogger logs handler failures and answers with a friendly error page.
// Store and connectivity errors land here; they are never retried.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err under a fresh reference id and renders a 500 page
// showing userMsg and the reference.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	ref := uuid.NewString()
	e.log.Error(msg,
		zap.Error(err),
		zap.String("ref", ref),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	render(w, r, http.StatusInternalServerError, userMsg, ref, backURL)
}

// LogBadRequest logs a malformed request at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	render(w, r, http.StatusBadRequest, userMsg, "", backURL)
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, "The page you were looking for does not exist.", "", "/")
}

func render(w http.ResponseWriter, r *http.Request, status int, userMsg, ref, backURL string) {
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	if backURL == "" {
		backURL = "/"
	}
	base := viewdata.NewBaseVM(w, r, nil, http.StatusText(status), backURL)
	data := pageData{BaseVM: base, Status: status, Message: userMsg, Reference: ref}

	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// Redirect is the flash-and-redirect answer used for validation, authorization
// and not-found failures: nothing is rendered, the next page shows the message.
func Redirect(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, kind, msg, to string) {
	sm.AddFlash(w, r, kind, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
