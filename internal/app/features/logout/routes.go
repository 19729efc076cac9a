// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes needs no guard: logging out without a session is a no-op redirect.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogout)
	return r
}
