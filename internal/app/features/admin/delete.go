// internal/app/features/admin/delete.go
package admin

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDelete removes a club. Users who joined it keep the id in their
// join lists; pages that resolve those ids skip the missing club.
//
// Route: POST /delete_club/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseClubID(chi.URLParam(r, "id"))
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete club")
	defer cancel()

	// Load first so the audit entry carries the name.
	club, err := h.Clubs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: load club", err, "A database error occurred.", "/admin/dashboard")
		return
	}

	n, err := h.Clubs.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: delete club", err, "Could not delete the club.", "/admin/dashboard")
		return
	}
	if n == 0 {
		// deleted concurrently
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/admin/dashboard")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.ClubDeleted(ctx, r, actor, id, club.Name)
	h.Metrics.RecordClubMutation(metrics.ClubDeleted)
	h.Log.Info("club deleted", zap.String("club_id", id.Hex()), zap.String("name", club.Name))

	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashSuccess, "Club deleted successfully!", "/admin/dashboard")
}
