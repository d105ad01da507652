// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /api/group subrouter. Everything here requires a
// signed-in requester.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireSignedIn)

		// CREATE
		pr.Post("/", h.HandleCreateGroup)

		// MEMBERSHIP (static prefix before the {groupCode} wildcard)
		pr.Post("/user/{groupCode}", h.HandleInvite)
		pr.Put("/user/{groupCode}", h.HandleAccept)
		pr.Delete("/user/{groupCode}", h.HandleRemoveMember)

		// VIEWS
		pr.Get("/{groupCode}/locations", h.ServeLocations)
		pr.Get("/{groupCode}/members", h.ServeMembers)
		pr.Get("/{groupCode}/invites", h.ServeInvites)

		// UPDATE / DELETE
		pr.Put("/{groupCode}", h.HandleUpdateGroup)
		pr.Delete("/{groupCode}", h.HandleDeleteGroup)
	})

	return r
}
