// internal/domain/models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the profile record owned by the data service. The app tier never
// persists it; a fresh copy is fetched per request at authentication time and
// discarded when the request finishes.
type User struct {
	ID                  primitive.ObjectID `json:"_id,omitempty"`
	Email               string             `json:"email"`
	Nickname            string             `json:"nickname"`
	ProfilePictureURL   string             `json:"profilePictureURL,omitempty"`
	Location            Location           `json:"location"`
	EnableNotifications bool               `json:"enableNotifications"`
	Incognito           bool               `json:"incognito"`
	UpdateFrequency     int                `json:"updateFrequency"`
	Radius              float64            `json:"radius"`
	MyGroups            []MyGroup          `json:"myGroups"`
}

// Location is the last position the user shared.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MyGroup is the user-side half of a membership. The data service populates
// Group with the full group record (code and members included) so the app
// tier can authorize and cascade without extra reads. Admin lives here, on
// the user side, not on the group's member entry. Name is this user's private
// display name for the group; renaming a group only ever touches this field.
type MyGroup struct {
	Group Group  `json:"groupID"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// FindGroup returns the membership entry for the given group code.
// The second return is false when the user holds no record for that code.
func (u User) FindGroup(groupCode string) (MyGroup, bool) {
	for _, m := range u.MyGroups {
		if m.Group.GroupCode == groupCode {
			return m, true
		}
	}
	return MyGroup{}, false
}
