// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the club pages at the site root; use with r.Group.
func Routes(h *Handler, sm *auth.SessionManager) func(chi.Router) {
	return func(r chi.Router) {
		// Public
		r.Get("/view_club/{id}", h.ServeView)

		r.Group(func(pr chi.Router) {
			pr.Use(sm.RequireSignedIn)
			pr.Get("/join_club/{id}", h.HandleJoin)
		})
	}
}
