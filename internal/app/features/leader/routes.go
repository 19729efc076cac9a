// internal/app/features/leader/routes.go
package leader

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the leader pages under /leader. Admins pass the role gate;
// per-club ownership is checked in the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole("leader", "admin"))

	r.Get("/dashboard", h.ServeDashboard)

	r.Get("/add_event", h.ServeAddEvent)
	r.Post("/add_event", h.HandleAddEvent)

	r.Get("/add_announcement/{id}", h.ServeAddAnnouncement)
	r.Post("/add_announcement/{id}", h.HandleAddAnnouncement)

	return r
}
