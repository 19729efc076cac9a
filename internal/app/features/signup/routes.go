// internal/app/features/signup/routes.go
package signup

import "github.com/go-chi/chi/v5"

// Routes registers the signup form on the site root. It is used with
// r.Group so the root path is not mounted as a catch-all.
func Routes(h *Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.ServeSignup)
		r.Post("/", h.HandleSignup)
	}
}
