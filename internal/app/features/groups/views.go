// internal/app/features/groups/views.go
package groups

import (
	"net/http"

	"github.com/dalemusser/circle360/internal/app/policy/visibility"
	"github.com/dalemusser/circle360/internal/app/system/apierr"
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// viewPayload wraps every member view with the group's public flag so
// clients know whether the invite code is shareable.
type viewPayload struct {
	Public bool `json:"public"`
	Group  any  `json:"group"`
}

// ServeLocations returns the location-sharing view: the requester always,
// everyone else only when accepted and not incognito.
// GET /api/group/{groupCode}/locations
func (h *Handler) ServeLocations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	group, err := h.Store.GetGroup(r.Context(), chi.URLParam(r, "groupCode"))
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, viewPayload{
		Public: group.Public,
		Group:  visibility.Locations(group, user.Email),
	})
}

// ServeMembers returns the roster view: every accepted member other than
// the requester, incognito flag exposed. An empty roster is a 400.
// GET /api/group/{groupCode}/members
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	group, err := h.Store.GetGroup(r.Context(), chi.URLParam(r, "groupCode"))
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	roster := visibility.Roster(group, user.Email)
	if len(roster) == 0 {
		apierr.Render(w, h.Log, apierr.New(apierr.NotFound, "no members"))
		return
	}

	apierr.Success(w, viewPayload{Public: group.Public, Group: roster})
}

// ServeInvites returns the pending invites, email only. No pending invites
// is a 400.
// GET /api/group/{groupCode}/invites
func (h *Handler) ServeInvites(w http.ResponseWriter, r *http.Request) {
	group, err := h.Store.GetGroup(r.Context(), chi.URLParam(r, "groupCode"))
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	invites := visibility.Invites(group)
	if len(invites) == 0 {
		apierr.Render(w, h.Log, apierr.New(apierr.NotFound, "no pending invites"))
		return
	}

	apierr.Success(w, viewPayload{Public: group.Public, Group: invites})
}
