// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the admin-only club directory pages. The paths live at
// the site root, so this is used with r.Group rather than Mount.
func Routes(h *Handler, sm *auth.SessionManager) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(sm.RequireRole("admin"))

		r.Get("/admin/dashboard", h.ServeDashboard)

		// CREATE
		r.Get("/add_club", h.ServeNew)
		r.Post("/add_club", h.HandleCreate)

		// EDIT
		r.Get("/edit_club/{id}", h.ServeEdit)
		r.Post("/edit_club/{id}", h.HandleEdit)

		// DELETE
		r.Post("/delete_club/{id}", h.HandleDelete)
	}
}
