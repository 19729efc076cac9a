// internal/app/policy/clubpolicy/clubpolicy.go
package clubpolicy

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// CanManageClub reports whether the current request user may post events and
// announcements to club:
//   - Admins always can
//   - Leaders can only for clubs whose leader reference is themselves
//   - Everyone else cannot
func CanManageClub(r *http.Request, club models.Club) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleLeader:
		return club.LeaderID == uid
	default:
		return false
	}
}
