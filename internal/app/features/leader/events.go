// internal/app/features/leader/events.go
package leader

import (
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

const msgBadDateTime = "Please enter a valid date (YYYY-MM-DD) and time (HH:MM)."

type clubOption struct {
	ID       string
	Name     string
	Selected bool
}

type eventFormData struct {
	viewdata.BaseVM
	Clubs []clubOption
}

// ServeAddEvent shows the event form. ?club_id preselects a club.
//
// Route: GET /leader/add_event
func (h *Handler) ServeAddEvent(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add event form")
	defer cancel()

	var (
		clubs []models.Club
		err   error
	)
	if authz.IsAdmin(r) {
		clubs, err = h.Clubs.List(ctx)
	} else {
		clubs, err = h.Clubs.ListByLeader(ctx, uid)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "leader: list clubs", err, "A database error occurred.", dashboardPath)
		return
	}

	selected := normalize.ObjectIDHex(query.Get(r, "club_id"))
	opts := make([]clubOption, 0, len(clubs))
	for _, c := range clubs {
		opts = append(opts, clubOption{ID: c.ID.Hex(), Name: c.Name, Selected: c.ID.Hex() == selected})
	}

	data := eventFormData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Add Event", dashboardPath),
		Clubs:  opts,
	}
	templates.Render(w, r, "add_event", data)
}

// HandleAddEvent appends an event to a club the user manages.
//
// Route: POST /leader/add_event
func (h *Handler) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "leader: parse event form", err, "Invalid form submission.", addEventPath)
		return
	}
	clubHex := normalize.ObjectIDHex(r.PostFormValue("club_id"))
	ev := models.Event{
		Title: htmlsanitize.StripTags(normalize.Name(r.PostFormValue("title"))),
		Date:  normalize.QueryParam(r.PostFormValue("date")),
		Time:  normalize.QueryParam(r.PostFormValue("time")),
	}

	back := addEventPath
	if clubHex != "" {
		back += "?club_id=" + clubHex
	}
	if clubHex == "" || ev.Title == "" || ev.Date == "" || ev.Time == "" {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgMissingFields, back)
		return
	}
	if !validDateTime(ev.Date, ev.Time) {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgBadDateTime, back)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add event")
	defer cancel()

	club, ok := h.loadManagedClub(ctx, w, r, clubHex)
	if !ok {
		return
	}

	if err := h.Clubs.AddEvent(ctx, club.ID, ev); err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, dashboardPath)
			return
		}
		h.ErrLog.LogServerError(w, r, "leader: add event", err, "Could not schedule the event.", dashboardPath)
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.EventAdded(ctx, r, actor, club.ID, ev.Title, ev.Date)
	h.Metrics.RecordClubMutation(metrics.EventAdded)

	uierrors.Redirect(w, r, h.SessionMgr, auth.FlashSuccess, "Event scheduled successfully!", dashboardPath)
}

// validDateTime reports whether date is YYYY-MM-DD and clock is HH:MM.
func validDateTime(date, clock string) bool {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return false
	}
	_, err := time.Parse(models.TimeLayout, clock)
	return err == nil
}
