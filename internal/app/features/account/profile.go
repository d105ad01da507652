// internal/app/features/account/profile.go
package account

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/app/system/apierr"
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/dalemusser/circle360/internal/app/system/sanitize"
	"github.com/dalemusser/circle360/internal/domain/models"
)

// profilePayload is what a user sees of their own account. Same field set
// the data service stores, minus the internal id.
type profilePayload struct {
	Email               string           `json:"email"`
	Nickname            string           `json:"nickname"`
	ProfilePictureURL   string           `json:"profilePictureURL,omitempty"`
	Location            models.Location  `json:"location"`
	EnableNotifications bool             `json:"enableNotifications"`
	Incognito           bool             `json:"incognito"`
	UpdateFrequency     int              `json:"updateFrequency"`
	Radius              float64          `json:"radius"`
	MyGroups            []models.MyGroup `json:"myGroups"`
}

func profileOf(u models.User) profilePayload {
	return profilePayload{
		Email:               u.Email,
		Nickname:            u.Nickname,
		ProfilePictureURL:   u.ProfilePictureURL,
		Location:            u.Location,
		EnableNotifications: u.EnableNotifications,
		Incognito:           u.Incognito,
		UpdateFrequency:     u.UpdateFrequency,
		Radius:              u.Radius,
		MyGroups:            u.MyGroups,
	}
}

// ServeProfile returns the requester's profile as fetched at
// authentication time.
// GET /api/user
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	apierr.Success(w, profileOf(*user))
}

// profileUpdateRequest mirrors the mutable profile fields; pointers so the
// update only carries what the client sent.
type profileUpdateRequest struct {
	Nickname            *string          `json:"nickname"`
	ProfilePictureURL   *string          `json:"profilePictureURL"`
	Location            *models.Location `json:"location"`
	EnableNotifications *bool            `json:"enableNotifications"`
	Incognito           *bool            `json:"incognito"`
	UpdateFrequency     *int             `json:"updateFrequency"`
	Radius              *float64         `json:"radius"`
}

// HandleUpdateProfile forwards the profile update downstream and returns
// the updated user.
// PUT /api/user
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Render(w, h.Log, apierr.New(apierr.BadRequest, "bad request"))
		return
	}

	if req.Nickname != nil {
		clean := sanitize.Text(*req.Nickname)
		req.Nickname = &clean
	}

	updated, err := h.Store.UpdateUser(r.Context(), dataservice.ProfileUpdate{
		Email:               user.Email,
		Nickname:            req.Nickname,
		ProfilePictureURL:   req.ProfilePictureURL,
		Location:            req.Location,
		EnableNotifications: req.EnableNotifications,
		Incognito:           req.Incognito,
		UpdateFrequency:     req.UpdateFrequency,
		Radius:              req.Radius,
	})
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, profileOf(updated))
}

// HandleDeleteAccount removes the account. The data service does not
// cascade group membership, so deletion is refused until the user has
// left every group.
// DELETE /api/user
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Render(w, h.Log, apierr.New(apierr.Unauthenticated, ""))
		return
	}

	if len(user.MyGroups) > 0 {
		apierr.Render(w, h.Log, apierr.New(apierr.BadRequest,
			"bad request - need first to deregister from all groups"))
		return
	}

	msg, err := h.Store.DeleteUser(r.Context(), user.Email)
	if err != nil {
		apierr.Render(w, h.Log, err)
		return
	}

	apierr.Success(w, msg)
}
