package clubpolicy_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanManageClub(t *testing.T) {
	leaderID := primitive.NewObjectID()
	club := models.Club{ID: primitive.NewObjectID(), Name: "Chess", LeaderID: leaderID}

	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"anonymous", nil, false},
		{"admin", &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "admin"}, true},
		{"owning leader", &auth.SessionUser{ID: leaderID.Hex(), Role: "leader"}, true},
		{"other leader", &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "leader"}, false},
		{"student with leader id", &auth.SessionUser{ID: leaderID.Hex(), Role: "student"}, false},
		{"malformed id", &auth.SessionUser{ID: "not-hex", Role: "admin"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/leader/add_event", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if got := clubpolicy.CanManageClub(req, club); got != tt.want {
				t.Errorf("CanManageClub = %v, want %v", got, tt.want)
			}
		})
	}
}
