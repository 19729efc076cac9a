// internal/app/features/admin/list.go
package admin

import (
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// recentAuditLimit is how many audit events the dashboard shows.
const recentAuditLimit = 15

// failedLoginWindow is how far back the failed-login count looks.
const failedLoginWindow = 24 * time.Hour

// ServeDashboard lists every club.
//
// Route: GET /admin/dashboard
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin dashboard")
	defer cancel()

	clubs, err := h.Clubs.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list clubs", err, "A database error occurred.", "/home")
		return
	}
	leaders, err := h.Users.ListByRole(ctx, models.RoleLeader)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list leaders", err, "A database error occurred.", "/home")
		return
	}
	names := make(map[string]string, len(leaders))
	for _, l := range leaders {
		names[l.ID.Hex()] = l.FullName
	}

	rows := make([]clubRow, 0, len(clubs))
	for _, c := range clubs {
		rows = append(rows, clubRow{
			ID:          c.ID.Hex(),
			Name:        c.Name,
			Description: htmlsanitize.PrepareForDisplay(c.Description),
			LeaderName:  names[c.LeaderID.Hex()],
			Members:     len(c.Members),
			Events:      len(c.Events),
		})
	}

	// The activity panel is informational; a failure only hides it.
	recent, err := h.Audit.GetRecent(ctx, recentAuditLimit)
	if err != nil {
		h.Log.Warn("admin: recent audit events", zap.Error(err))
	}
	failed, err := h.Audit.GetFailedLogins(ctx, time.Now().UTC().Add(-failedLoginWindow), recentAuditLimit)
	if err != nil {
		h.Log.Warn("admin: failed logins", zap.Error(err))
	}

	data := dashboardData{
		BaseVM:       viewdata.NewBaseVM(w, r, h.SessionMgr, "Admin Dashboard", "/home"),
		Clubs:        rows,
		Recent:       recent,
		FailedLogins: failed,
	}
	templates.Render(w, r, "admin_dashboard", data)
}
