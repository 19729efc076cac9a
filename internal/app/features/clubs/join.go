// internal/app/features/clubs/join.go
package clubs

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleJoin adds the current user to a club. Joining twice is a no-op.
//
// Route: GET /join_club/{id}
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, "Please login first", auth.LoginPath)
		return
	}

	id, err := primitive.ObjectIDFromHex(normalize.ObjectIDHex(chi.URLParam(r, "id")))
	if err != nil {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/home")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "join club")
	defer cancel()

	if _, err := h.Clubs.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/home")
			return
		}
		h.ErrLog.LogServerError(w, r, "clubs: load club", err, "A database error occurred.", "/home")
		return
	}

	back := "/view_club/" + id.Hex()

	joined, err := h.Users.JoinClub(ctx, uid, id.Hex(), JoinNotification)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Session outlived its account.
		if err := h.SessionMgr.SignOut(w, r, auth.NewFlash(auth.FlashWarning, "Please login first")); err != nil {
			h.Log.Warn("clubs: sign out stale session", zap.Error(err))
		}
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "clubs: join", err, "Could not join the club.", back)
		return
	}
	if !joined {
		h.Metrics.RecordJoin(metrics.JoinAlready)
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashInfo, "Already a member of this club!", back)
		return
	}

	// The user's join list is authoritative; the club's member set is a
	// mirror and a failure here is only logged.
	if err := h.Clubs.AddMember(ctx, id, uid); err != nil {
		h.Log.Warn("clubs: add member", zap.Error(err),
			zap.String("club_id", id.Hex()), zap.String("user_id", uid.Hex()))
	}

	h.AuditLog.ClubJoined(ctx, r, uid, id)
	h.Metrics.RecordJoin(metrics.JoinAdded)

	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashSuccess, "Joined the club successfully!", back)
}
