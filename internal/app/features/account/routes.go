// internal/app/features/account/routes.go
package account

import (
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/user subrouter. The three token endpoints are
// public; everything else requires a signed-in requester.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	// TOKEN ISSUANCE (public)
	r.Post("/login", h.HandleLogin)
	r.Post("/signup", h.HandleSignup)
	r.Put("/token", h.HandleUpsert)

	// PROFILE (authenticated)
	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		pr.Get("/", h.ServeProfile)
		pr.Put("/", h.HandleUpdateProfile)
		pr.Delete("/", h.HandleDeleteAccount)
	})

	return r
}
