// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authutil"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// msgInvalid is shown for every failed login so the response never reveals
// which check failed. The audit log records the real reason.
const msgInvalid = "Invalid username or password!"

const msgRateLimited = "Too many login attempts. Please wait a minute and try again."

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Collector
	Limiter    *ratelimit.FormLimiter
	Log        *zap.Logger

	// AdminID is the shared secret every admin must present at login.
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

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Roles []string
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	data := loginFormData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Login", "/"),
		Roles:  models.Roles,
	}
	templates.Render(w, r, "login", data)
}

// HandleLoginPost handles POST /login.
//
// The role field on the form is accepted but ignored: the admin id is
// required whenever the stored account is an admin, whatever the form claims.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form", err, "Invalid form submission.", auth.LoginPath)
		return
	}
	username := normalize.Username(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	adminID := strings.TrimSpace(r.PostFormValue("admin_id"))

	if !h.Limiter.Check(r, username) {
		h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginFailedRateLimit, nil, username)
		h.Metrics.RecordLogin(metrics.LoginRateLimited)
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgRateLimited, auth.LoginPath)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Compare against a throwaway hash so unknown usernames take as
		// long as wrong passwords.
		authutil.CheckPassword(dummyHash(), password)
		h.fail(w, r, audit.EventLoginFailedUserNotFound, nil, username, metrics.LoginBadPassword)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: user lookup", err, "A database error occurred.", auth.LoginPath)
		return
	}

	if !authutil.CheckPassword(u.PasswordHash, password) {
		h.fail(w, r, audit.EventLoginFailedWrongPassword, &u.ID, username, metrics.LoginBadPassword)
		return
	}
	if u.Role == models.RoleAdmin && (h.AdminID == "" || adminID != h.AdminID) {
		h.fail(w, r, audit.EventLoginFailedAdminID, &u.ID, username, metrics.LoginBadAdminID)
		return
	}

	su := auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su, auth.NewFlash(auth.FlashSuccess, "Login successful! Welcome "+u.FullName)); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err, "Could not sign you in.", auth.LoginPath)
		return
	}

	h.Limiter.ResetAccount(username)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Username, u.Role)
	h.Metrics.RecordLogin(metrics.LoginSuccess)

	http.Redirect(w, r, authz.HomePath(u.Role), http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, eventType string, userID *primitive.ObjectID, username, outcome string) {
	h.AuditLog.LoginFailed(r.Context(), r, eventType, userID, username)
	h.Metrics.RecordLogin(outcome)
	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgInvalid, auth.LoginPath)
}

var (
	dummyOnce sync.Once
	dummy     string
)

// dummyHash is a bcrypt hash of a fixed string, computed once.
func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = authutil.HashPassword("clubhub-timing-equalizer")
	})
	return dummy
}
