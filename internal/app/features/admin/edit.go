// internal/app/features/admin/edit.go
package admin

import (
	"errors"
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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeEdit shows the club form filled with the current values.
//
// Route: GET /edit_club/{id}
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseClubID(chi.URLParam(r, "id"))
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "edit club form")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: load club", err, "A database error occurred.", "/admin/dashboard")
		return
	}
	leaders, err := h.Users.ListByRole(ctx, models.RoleLeader)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list leaders", err, "A database error occurred.", "/admin/dashboard")
		return
	}

	data := clubFormData{
		BaseVM:      viewdata.NewBaseVM(w, r, h.SessionMgr, "Edit Club", "/admin/dashboard"),
		IsEdit:      true,
		Action:      "/edit_club/" + club.ID.Hex(),
		ClubID:      club.ID.Hex(),
		Name:        club.Name,
		Description: club.Description,
		Leaders:     leaderOptions(leaders, club.LeaderID.Hex()),
	}
	templates.Render(w, r, "club_form", data)
}

// HandleEdit overwrites a club's name, description and leader.
//
// Route: POST /edit_club/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseClubID(chi.URLParam(r, "id"))
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	}
	back := "/edit_club/" + id.Hex()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin: parse edit club form", err, "Invalid form submission.", back)
		return
	}
	in := readClubForm(r)
	if in.Name == "" || in.Description == "" || in.LeaderHex == "" {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgMissingFields, back)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "edit club")
	defer cancel()

	leaderID, ok, err := h.validLeader(ctx, in.LeaderHex)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: validate leader", err, "A database error occurred.", back)
		return
	}
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgBadLeader, back)
		return
	}

	taken, err := h.Clubs.NameExists(ctx, in.Name, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: club name lookup", err, "A database error occurred.", back)
		return
	}
	if taken {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, msgDuplicateName, back)
		return
	}

	err = h.Clubs.Update(ctx, id, clubstore.ClubUpdate{
		Name:        in.Name,
		Description: in.Description,
		LeaderID:    leaderID,
	})
	switch {
	case errors.Is(err, clubstore.ErrNotFound):
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	case errors.Is(err, clubstore.ErrDuplicateName):
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, msgDuplicateName, back)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "admin: update club", err, "Could not update the club.", back)
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.ClubUpdated(ctx, r, actor, id, in.Name)
	h.Metrics.RecordClubMutation(metrics.ClubUpdated)

	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashSuccess, "Club updated successfully!", "/admin/dashboard")
}
