// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// profileData is the view model for the profile page.
type profileData struct {
	viewdata.BaseVM

	// User info (read-only display)
	FullName string
	Username string
	Email    string
	UserRole string

	Clubs         []models.Club
	Notifications []string
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, "Please login first", auth.LoginPath)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "profile")
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if err := h.SessionMgr.SignOut(w, r, auth.NewFlash(auth.FlashWarning, "Please login first")); err != nil {
			h.Log.Warn("profile: sign out stale session", zap.Error(err))
		}
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load user", err, "A database error occurred.", "/home")
		return
	}

	clubs, err := h.JoinedClubs(ctx, user.JoinedClubs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load clubs", err, "A database error occurred.", "/home")
		return
	}

	data := profileData{
		BaseVM:        viewdata.NewBaseVM(w, r, h.SessionMgr, "My Profile", "/home"),
		FullName:      user.FullName,
		Username:      user.Username,
		Email:         user.Email,
		UserRole:      user.Role,
		Clubs:         clubs,
		Notifications: user.Notifications,
	}
	templates.Render(w, r, "profile", data)
}

// JoinedClubs resolves each id in a join list, in list order. Ids that are
// malformed or no longer resolve (the club was deleted) are skipped.
func (h *Handler) JoinedClubs(ctx context.Context, ids []string) ([]models.Club, error) {
	out := make([]models.Club, 0, len(ids))
	for _, hex := range ids {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		c, err := h.Clubs.GetByID(ctx, id)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}
