// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/paging"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// listQuery is the parsed filter form. Unknown categories and event types
// are dropped, as are dates that do not parse.
type listQuery struct {
	Category  string
	EventType string
	StartDate string
	EndDate   string
	Start     int
}

func parseQuery(r *http.Request) listQuery {
	q := listQuery{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		StartDate: strings.TrimSpace(query.Get(r, "start_date")),
		EndDate:   strings.TrimSpace(query.Get(r, "end_date")),
		Start:     paging.ParseStart(r),
	}
	if eventTypesForCategory(q.Category) == nil {
		q.Category = ""
	}
	if !contains(eventTypesForCategory(q.Category), q.EventType) {
		q.EventType = ""
	}
	return q
}

func (q listQuery) filter() audit.QueryFilter {
	f := audit.QueryFilter{
		Category:  q.Category,
		EventType: q.EventType,
		Limit:     paging.PageSize,
		Offset:    paging.Skip(q.Start),
	}
	if t, err := time.Parse(dateLayout, q.StartDate); err == nil {
		f.StartTime = &t
	}
	if t, err := time.Parse(dateLayout, q.EndDate); err == nil {
		// inclusive through the end of the day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f
}

// ServeList handles GET /admin/audit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit list")
	defer cancel()

	items, total, err := h.loadItems(ctx, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit: query events", err, "A database error occurred.", "/admin/dashboard")
		return
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(w, r, h.SessionMgr, "Audit Log", "/admin/dashboard"),
		Items:      items,
		Category:   q.Category,
		EventType:  q.EventType,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(q.Category),
		Total:      total,
		Range:      paging.ComputeRange(q.Start, len(items), total),
	})
}

// loadItems runs the filtered query and resolves people and club names.
// Name lookups are best effort; an unresolved id is shown in hex.
func (h *Handler) loadItems(ctx context.Context, q listQuery) ([]listItem, int64, error) {
	f := q.filter()
	events, err := h.Audit.Query(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := h.Audit.CountByFilter(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	var userIDs, clubIDs []primitive.ObjectID
	for _, e := range events {
		if e.ActorID != nil {
			userIDs = append(userIDs, *e.ActorID)
		}
		if e.UserID != nil {
			userIDs = append(userIDs, *e.UserID)
		}
		if e.ClubID != nil {
			clubIDs = append(clubIDs, *e.ClubID)
		}
	}

	userNames, err := h.Users.NamesByIDs(ctx, userIDs)
	if err != nil {
		h.Log.Warn("audit: resolve user names", zap.Error(err))
		userNames = nil
	}
	clubNames, err := h.Clubs.NamesByIDs(ctx, clubIDs)
	if err != nil {
		h.Log.Warn("audit: resolve club names", zap.Error(err))
		clubNames = nil
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			Timestamp:  e.Timestamp,
			Category:   e.Category,
			EventType:  e.EventType,
			ActorName:  nameOf(userNames, e.ActorID),
			TargetName: nameOf(userNames, e.UserID),
			ClubName:   nameOf(clubNames, e.ClubID),
			IP:         e.IP,
			Success:    e.Success,
			Reason:     e.FailureReason,
			Details:    e.Details,
		})
	}
	return items, total, nil
}

func nameOf(names map[primitive.ObjectID]string, id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	if n, ok := names[*id]; ok {
		return n
	}
	return id.Hex()
}
