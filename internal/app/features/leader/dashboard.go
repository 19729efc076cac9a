// internal/app/features/leader/dashboard.go
package leader

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type dashboardData struct {
	viewdata.BaseVM
	Clubs []models.Club
}

// ServeDashboard lists the clubs led by the current user. Admins see only
// clubs they lead themselves.
//
// Route: GET /leader/dashboard
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "leader dashboard")
	defer cancel()

	clubs, err := h.LoadDashboard(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "leader: list clubs", err, "A database error occurred.", "/home")
		return
	}

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Leader Dashboard", "/home"),
		Clubs:  clubs,
	}
	templates.Render(w, r, "leader_dashboard", data)
}

// LoadDashboard returns the clubs whose leader is leaderID, sorted by name.
func (h *Handler) LoadDashboard(ctx context.Context, leaderID primitive.ObjectID) ([]models.Club, error) {
	return h.Clubs.ListByLeader(ctx, leaderID)
}
