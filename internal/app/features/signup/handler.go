// internal/app/features/signup/handler.go
package signup

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authutil"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Messages shown after a rejected signup.
const (
	msgMissingFields    = "All fields are required."
	msgPasswordMismatch = "Passwords do not match!"
	msgBadRole          = "Please choose a valid role."
	msgEmailTaken       = "Email already registered!"
	msgUsernameTaken    = "Username already taken!"
	msgBadAdminID       = "Invalid Admin ID!"
	msgRateLimited      = "Too many signup attempts. Please wait a minute and try again."
	msgCreated          = "Account created successfully! Please login."
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Collector
	Limiter    *ratelimit.FormLimiter
	Log        *zap.Logger

	// AdminID is the shared secret required to create an admin account.
	AdminID string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger, mc *metrics.Collector, limiter *ratelimit.FormLimiter, adminID string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Metrics:    mc,
		Limiter:    limiter,
		AdminID:    adminID,
		Log:        logger,
	}
}

type signupData struct {
	viewdata.BaseVM
	Roles []string
}

// ServeSignup handles GET /.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	data := signupData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Sign Up", "/"),
		Roles:  models.Roles,
	}
	templates.Render(w, r, "signup", data)
}

// signupForm is the submitted form after normalization.
type signupForm struct {
	Name     string
	Username string
	Email    string
	Password string
	Confirm  string
	Role     string
	AdminID  string
}

func readForm(r *http.Request) signupForm {
	role := normalize.Role(r.PostFormValue("role"))
	if role == "" {
		role = models.RoleStudent
	}
	return signupForm{
		Name:     normalize.Name(r.PostFormValue("name")),
		Username: normalize.Username(r.PostFormValue("username")),
		Email:    normalize.Email(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
		Role:     role,
		AdminID:  strings.TrimSpace(r.PostFormValue("admin_id")),
	}
}

// HandleSignup handles POST /.
//
// Checks run in order and the first failure wins: blank fields, password
// confirmation, role, email taken, username taken, admin id. Nothing is
// written unless every check passes.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "signup: parse form", err, "Invalid form submission.", "/")
		return
	}
	f := readForm(r)

	if !h.Limiter.Check(r, "") {
		h.reject(w, r, f.Username, "rate_limited", auth.FlashDanger, msgRateLimited)
		return
	}

	if f.Name == "" || f.Username == "" || f.Email == "" || f.Password == "" {
		h.reject(w, r, f.Username, "missing_fields", auth.FlashDanger, msgMissingFields)
		return
	}
	if f.Password != f.Confirm {
		h.reject(w, r, f.Username, "password_mismatch", auth.FlashDanger, msgPasswordMismatch)
		return
	}
	if !models.IsValidRole(f.Role) {
		h.reject(w, r, f.Username, "bad_role", auth.FlashDanger, msgBadRole)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "signup")
	defer cancel()

	emailTaken, err := h.Users.EmailExists(ctx, f.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: email lookup", err, "A database error occurred.", "/")
		return
	}
	if emailTaken {
		h.reject(w, r, f.Username, "email_taken", auth.FlashDanger, msgEmailTaken)
		return
	}

	nameTaken, err := h.Users.UsernameExists(ctx, f.Username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: username lookup", err, "A database error occurred.", "/")
		return
	}
	if nameTaken {
		h.reject(w, r, f.Username, "username_taken", auth.FlashDanger, msgUsernameTaken)
		return
	}

	if f.Role == models.RoleAdmin && (h.AdminID == "" || f.AdminID != h.AdminID) {
		h.reject(w, r, f.Username, "bad_admin_id", auth.FlashDanger, msgBadAdminID)
		return
	}

	hash, err := authutil.HashPassword(f.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: hash password", err, "Could not create your account.", "/")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		FullName:     f.Name,
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: hash,
		Role:         f.Role,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		// lost a race with a concurrent signup
		h.reject(w, r, f.Username, "email_taken", auth.FlashDanger, msgEmailTaken)
		return
	case errors.Is(err, userstore.ErrDuplicateUsername):
		h.reject(w, r, f.Username, "username_taken", auth.FlashDanger, msgUsernameTaken)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "signup: create user", err, "Could not create your account.", "/")
		return
	}

	h.AuditLog.Signup(ctx, r, u.ID, u.Username, u.Role)
	h.Metrics.RecordSignup(u.Role)
	h.Log.Info("account created", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, msgCreated)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// reject records why a signup failed and sends the user back to the form.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, username, reason, kind, msg string) {
	h.AuditLog.SignupRejected(r.Context(), r, username, reason)
	uierrors.Redirect(w, r, h.SessionMgr, kind, msg, "/")
}
