// internal/app/features/groups/mutations.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/circle360/internal/app/system/apierr"
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/dalemusser/circle360/internal/app/system/sanitize"
	"github.com/go-chi/chi/v5"
)

// HandleCreateGroup creates a group with the requester as admin and
// returns the new group code.
// POST /api/group
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	groupCode, err := h.Flow.CreateGroup(r.Context(), *user)
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, groupCode)
}

// updateGroupRequest carries the two independently-gated sub-operations.
// Public is a pointer so "set to false" and "absent" stay distinct.
type updateGroupRequest struct {
	Public *bool  `json:"public"`
	Name   string `json:"name"`
}

// HandleUpdateGroup updates the public flag and/or the requester-side group
// name. At least one field must be present.
// PUT /api/group/{groupCode}
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Render(w, h.Log, apierr.New(apierr.BadRequest, "bad request"))
		return
	}

	err := h.Flow.UpdateGroup(r.Context(), *user, chi.URLParam(r, "groupCode"),
		req.Public, sanitize.Text(req.Name))
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, "group updated successfully")
}

// HandleDeleteGroup deletes the group and cascades the detach across every
// accepted member. Admin only.
// DELETE /api/group/{groupCode}
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	if err := h.Flow.DeleteGroup(r.Context(), *user, chi.URLParam(r, "groupCode")); err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, "group deleted successfully")
}

// memberRequest is the body of the invite and remove endpoints: the target
// member's email.
type memberRequest struct {
	Email string `json:"email"`
}

// HandleInvite creates a pending invite for the given email. Any member of
// the group may invite.
// POST /api/group/user/{groupCode}
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		apierr.Render(w, h.Log, apierr.New(apierr.BadRequest, "bad request - email is required"))
		return
	}

	if err := h.Flow.Invite(r.Context(), *user, chi.URLParam(r, "groupCode"), req.Email); err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, "invite created successfully")
}

// HandleAccept turns the requester's pending invite into a membership.
// PUT /api/group/user/{groupCode}
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	if err := h.Flow.Accept(r.Context(), *user, chi.URLParam(r, "groupCode")); err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, "invite accepted - user has been added to group")
}

// HandleRemoveMember removes the given email from the group under the
// admin-other XOR self rule.
// DELETE /api/group/user/{groupCode}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		apierr.Render(w, h.Log, apierr.New(apierr.BadRequest, "bad request - email is required"))
		return
	}

	if err := h.Flow.RemoveMember(r.Context(), *user, chi.URLParam(r, "groupCode"), req.Email); err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, "user deleted successfully")
}
