// internal/domain/models/group.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is the group record owned by the data service.
//
// NOTE:
//   - Public does not gate joining. It only marks whether the invite code is
//     meant to be shareable; joining always goes through the invite flow.
//   - Admin status is not stored here. It lives on the admin's own MyGroups
//     entry, and the two sides are kept consistent by the workflow engine.
type Group struct {
	ID        primitive.ObjectID `json:"_id,omitempty"`
	GroupCode string             `json:"groupCode"`
	Public    bool               `json:"public"`
	Members   []Member           `json:"members"`
}

// Member is the group-side half of a membership. Accepted=false is a pending
// invite: it exists only on the group side until the invitee accepts.
// User is populated by the data service; Email is also stored flat on the
// record so cascades can run without the populated document.
type Member struct {
	User     MemberUser `json:"userID"`
	Email    string     `json:"email"`
	Accepted bool       `json:"accepted"`
}

// MemberUser is the populated profile subset the data service embeds on a
// group member.
type MemberUser struct {
	ID                primitive.ObjectID `json:"_id,omitempty"`
	Email             string             `json:"email"`
	Nickname          string             `json:"nickname"`
	ProfilePictureURL string             `json:"profilePictureURL,omitempty"`
	Location          Location           `json:"location"`
	Incognito         bool               `json:"incognito"`
}

// FindMember returns the member entry with the given email.
func (g Group) FindMember(email string) (Member, bool) {
	for _, m := range g.Members {
		if m.Email == email {
			return m, true
		}
	}
	return Member{}, false
}
