// internal/app/features/leader/announcements.go
package leader

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type announcementFormData struct {
	viewdata.BaseVM
	ClubID   string
	ClubName string
}

// ServeAddAnnouncement shows the announcement form for one club.
//
// Route: GET /leader/add_announcement/{id}
func (h *Handler) ServeAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcement form")
	defer cancel()

	club, ok := h.loadManagedClub(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	data := announcementFormData{
		BaseVM:   viewdata.NewBaseVM(w, r, h.SessionMgr, "Add Announcement", dashboardPath),
		ClubID:   club.ID.Hex(),
		ClubName: club.Name,
	}
	templates.Render(w, r, "add_announcement", data)
}

// HandleAddAnnouncement posts a message stamped with today's date.
//
// Route: POST /leader/add_announcement/{id}
func (h *Handler) HandleAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "leader: parse announcement form", err, "Invalid form submission.", dashboardPath)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add announcement")
	defer cancel()

	club, ok := h.loadManagedClub(ctx, w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	msg := htmlsanitize.StripTags(r.PostFormValue("message"))
	if msg == "" {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgMissingFields, "/leader/add_announcement/"+club.ID.Hex())
		return
	}

	a := models.Announcement{Message: msg, Date: h.Now().Format(models.DateLayout)}
	if err := h.Clubs.AddAnnouncement(ctx, club.ID, a); err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, dashboardPath)
			return
		}
		h.ErrLog.LogServerError(w, r, "leader: add announcement", err, "Could not post the announcement.", dashboardPath)
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.AnnouncementPosted(ctx, r, actor, club.ID)
	h.Metrics.RecordClubMutation(metrics.AnnouncementPost)

	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashSuccess, "Announcement added successfully!", dashboardPath)
}
