// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/paging"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

// listItem is one audit event row.
type listItem struct {
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorName  string // resolved from ActorID
	TargetName string // resolved from UserID
	ClubName   string // resolved from ClubID
	IP         string
	Success    bool
	Reason     string
	Details    map[string]string
}

// listData is the view model for the audit list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters, echoed back into the form
	Category  string
	EventType string
	StartDate string
	EndDate   string

	Categories []categoryOption
	EventTypes []string

	Total int64
	paging.Range
}

type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
		{Value: audit.CategoryClub, Label: "Club activity"},
	}
}

var (
	authEvents = []string{
		audit.EventSignup,
		audit.EventSignupRejected,
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedAdminID,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
	}
	adminEvents = []string{
		audit.EventClubCreated,
		audit.EventClubUpdated,
		audit.EventClubDeleted,
	}
	clubEvents = []string{
		audit.EventClubJoined,
		audit.EventEventAdded,
		audit.EventAnnouncementPosted,
	}
)

// eventTypesForCategory lists the event types offered for category; every
// type when category is empty, none when it is unknown.
func eventTypesForCategory(category string) []string {
	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategoryClub:
		return clubEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(clubEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		return append(all, clubEvents...)
	default:
		return nil
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
