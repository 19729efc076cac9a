// internal/app/features/admin/new.go
package admin

import (
	"errors"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const addClubPath = "/add_club"

// ServeNew shows the empty club form.
//
// Route: GET /add_club
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add club form")
	defer cancel()

	leaders, err := h.Users.ListByRole(ctx, models.RoleLeader)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list leaders", err, "A database error occurred.", "/admin/dashboard")
		return
	}

	data := clubFormData{
		BaseVM:  viewdata.NewBaseVM(w, r, h.SessionMgr, "Add Club", "/admin/dashboard"),
		Action:  addClubPath,
		Leaders: leaderOptions(leaders, ""),
	}
	templates.Render(w, r, "club_form", data)
}

// HandleCreate creates a club.
//
// Route: POST /add_club
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin: parse add club form", err, "Invalid form submission.", addClubPath)
		return
	}
	in := readClubForm(r)
	if in.Name == "" || in.Description == "" || in.LeaderHex == "" {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgMissingFields, addClubPath)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add club")
	defer cancel()

	leaderID, ok, err := h.validLeader(ctx, in.LeaderHex)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: validate leader", err, "A database error occurred.", addClubPath)
		return
	}
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgBadLeader, addClubPath)
		return
	}

	taken, err := h.Clubs.NameExists(ctx, in.Name, primitive.NilObjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: club name lookup", err, "A database error occurred.", addClubPath)
		return
	}
	if taken {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, msgDuplicateName, addClubPath)
		return
	}

	club, err := h.Clubs.Create(ctx, models.Club{
		Name:        in.Name,
		Description: in.Description,
		LeaderID:    leaderID,
	})
	if errors.Is(err, clubstore.ErrDuplicateName) {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, msgDuplicateName, addClubPath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: create club", err, "Could not create the club.", addClubPath)
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.ClubCreated(ctx, r, actor, club.ID, club.Name)
	h.Metrics.RecordClubMutation(metrics.ClubCreated)
	h.Log.Info("club created", zap.String("club_id", club.ID.Hex()), zap.String("name", club.Name))

	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashSuccess, fmt.Sprintf("Club '%s' created successfully!", club.Name), "/admin/dashboard")
}
