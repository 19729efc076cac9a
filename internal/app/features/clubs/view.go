// internal/app/features/clubs/view.go
package clubs

import (
	"errors"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memberRow struct {
	Name     string
	Username string
}

type viewData struct {
	viewdata.BaseVM
	Club        models.Club
	Description template.HTML
	LeaderName  string
	Members     []memberRow
	Joined      bool
	CanManage   bool
}

// ServeView shows one club. It needs no session.
//
// Route: GET /view_club/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(normalize.ObjectIDHex(chi.URLParam(r, "id")))
	if err != nil {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/home")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view club")
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, "/home")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "clubs: load club", err, "A database error occurred.", "/home")
		return
	}

	// Membership is read from users' join lists, which is where joins are
	// recorded first.
	members, err := h.Users.ListByJoinedClub(ctx, club.ID.Hex())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "clubs: list members", err, "A database error occurred.", "/home")
		return
	}

	_, _, uid, signedIn := authz.UserCtx(r)
	rows := make([]memberRow, 0, len(members))
	joined := false
	for _, m := range members {
		rows = append(rows, memberRow{Name: m.FullName, Username: m.Username})
		if signedIn && m.ID == uid {
			joined = true
		}
	}

	var leaderName string
	if leader, err := h.Users.GetByID(ctx, club.LeaderID); err == nil {
		leaderName = leader.FullName
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Warn("clubs: load leader", zap.Error(err), zap.String("club_id", club.ID.Hex()))
	}

	data := viewData{
		BaseVM:      viewdata.NewBaseVM(w, r, h.SessionMgr, club.Name, "/home"),
		Club:        *club,
		Description: htmlsanitize.PrepareForDisplay(club.Description),
		LeaderName:  leaderName,
		Members:     rows,
		Joined:      joined,
		CanManage:   clubpolicy.CanManageClub(r, *club),
	}
	templates.Render(w, r, "view_club", data)
}
