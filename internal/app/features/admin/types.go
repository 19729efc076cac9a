// internal/app/features/admin/types.go
package admin

import (
	"html/template"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// clubRow is one line of the dashboard table.
type clubRow struct {
	ID          string
	Name        string
	Description template.HTML
	LeaderName  string
	Members     int
	Events      int
}

type dashboardData struct {
	viewdata.BaseVM
	Clubs  []clubRow
	Recent []audit.Event

	// FailedLogins covers the last day, newest first.
	FailedLogins []audit.Event
}

// leaderOption is an entry in the leader picker.
type leaderOption struct {
	ID       string
	Name     string
	Selected bool
}

type clubFormData struct {
	viewdata.BaseVM
	IsEdit      bool
	Action      string
	ClubID      string
	Name        string
	Description string
	Leaders     []leaderOption
}

// clubInput is the submitted club form after normalization.
type clubInput struct {
	Name        string
	Description string
	LeaderHex   string
}

func leaderOptions(leaders []models.User, selected string) []leaderOption {
	out := make([]leaderOption, 0, len(leaders))
	for _, l := range leaders {
		id := l.ID.Hex()
		out = append(out, leaderOption{ID: id, Name: l.FullName, Selected: id == selected})
	}
	return out
}
