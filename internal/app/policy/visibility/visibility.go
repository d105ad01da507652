// internal/app/policy/visibility/visibility.go

// Package visibility produces the role-appropriate views of a group's member
// list. All functions are pure: they take the fetched group and reshape it,
// exposing only the fields each view is allowed to leak. Serialization stays
// at the gateway surface; these types are the payloads it encodes.
package visibility

import (
	"github.com/dalemusser/circle360/internal/domain/models"
)

// LocationEntry is one member in the location-sharing view. Only identity,
// position, and picture are exposed; never internal ids or preferences.
type LocationEntry struct {
	User LocationUser `json:"userID"`
}

// LocationUser is the profile subset a location view may show.
type LocationUser struct {
	Email             string          `json:"email"`
	Nickname          string          `json:"nickname"`
	Location          models.Location `json:"location"`
	ProfilePictureURL string          `json:"profilePictureURL,omitempty"`
}

// Locations returns the members visible to requesterEmail for location
// sharing: the requester themself always (self-visibility overrides both
// incognito and acceptance state), everyone else only when they have
// accepted and are not incognito.
func Locations(g models.Group, requesterEmail string) []LocationEntry {
	out := make([]LocationEntry, 0, len(g.Members))
	for _, m := range g.Members {
		if m.User.Email != requesterEmail && !(m.Accepted && !m.User.Incognito) {
			continue
		}
		out = append(out, LocationEntry{User: LocationUser{
			Email:             m.User.Email,
			Nickname:          m.User.Nickname,
			Location:          m.User.Location,
			ProfilePictureURL: m.User.ProfilePictureURL,
		}})
	}
	return out
}

// RosterEntry is one member in the roster view. The incognito flag is
// exposed so clients can suppress location UI, but the location itself
// never is.
type RosterEntry struct {
	User RosterUser `json:"userID"`
}

// RosterUser is the profile subset a roster view may show.
type RosterUser struct {
	Nickname          string `json:"nickname"`
	ProfilePictureURL string `json:"profilePictureURL,omitempty"`
	Incognito         bool   `json:"incognito"`
}

// Roster returns every accepted member other than the requester, incognito
// members included.
func Roster(g models.Group, requesterEmail string) []RosterEntry {
	out := make([]RosterEntry, 0, len(g.Members))
	for _, m := range g.Members {
		if m.User.Email == requesterEmail || !m.Accepted {
			continue
		}
		out = append(out, RosterEntry{User: RosterUser{
			Nickname:          m.User.Nickname,
			ProfilePictureURL: m.User.ProfilePictureURL,
			Incognito:         m.User.Incognito,
		}})
	}
	return out
}

// InviteEntry is one pending invite. Email only.
type InviteEntry struct {
	User InviteUser `json:"userID"`
}

// InviteUser is the single field an invite view may show.
type InviteUser struct {
	Email string `json:"email"`
}

// Invites returns every member that has not accepted yet.
func Invites(g models.Group) []InviteEntry {
	out := make([]InviteEntry, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Accepted {
			continue
		}
		out = append(out, InviteEntry{User: InviteUser{Email: m.User.Email}})
	}
	return out
}
