// internal/app/features/home/handler.go
package home

import (
	"errors"
	"net/http"
	"sort"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in home feed.
type Handler struct {
	Users      *userstore.Store
	Clubs      *clubstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Clubs:      clubstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// AnnouncementRow is an announcement tagged with the club that posted it.
type AnnouncementRow struct {
	ClubID   string
	ClubName string
	Message  string
	Date     string
}

// EventRow is an event tagged with its club.
type EventRow struct {
	ClubID   string
	ClubName string
	Title    string
	Date     string
	Time     string
}

type homeData struct {
	viewdata.BaseVM
	User          models.User
	Clubs         []models.Club
	Announcements []AnnouncementRow
	Events        []EventRow
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /home                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashWarning, "Please login first", auth.LoginPath)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "home feed")
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Session outlived its account.
		if err := h.SessionMgr.SignOut(w, r, auth.NewFlash(auth.FlashWarning, "Please login first")); err != nil {
			h.Log.Warn("home: sign out stale session", zap.Error(err))
		}
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "home: load user", err, "A database error occurred.", "/")
		return
	}

	clubs, err := h.Clubs.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "home: list clubs", err, "A database error occurred.", "/")
		return
	}

	announcements, events := BuildFeed(clubs)
	data := homeData{
		BaseVM:        viewdata.NewBaseVM(w, r, h.SessionMgr, "Home", "/home"),
		User:          *user,
		Clubs:         clubs,
		Announcements: announcements,
		Events:        events,
	}
	templates.Render(w, r, "home", data)
}

// BuildFeed flattens every club's announcements and events into two lists
// tagged with the club's name. Announcements are newest first; events are in
// date and time order. Ties keep club order.
func BuildFeed(clubs []models.Club) ([]AnnouncementRow, []EventRow) {
	var (
		anns   []AnnouncementRow
		events []EventRow
	)
	for _, c := range clubs {
		id := c.ID.Hex()
		for _, a := range c.Announcements {
			anns = append(anns, AnnouncementRow{ClubID: id, ClubName: c.Name, Message: a.Message, Date: a.Date})
		}
		for _, e := range c.Events {
			events = append(events, EventRow{ClubID: id, ClubName: c.Name, Title: e.Title, Date: e.Date, Time: e.Time})
		}
	}

	// YYYY-MM-DD and HH:MM sort correctly as strings.
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].Date > anns[j].Date })
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
	return anns, events
}
