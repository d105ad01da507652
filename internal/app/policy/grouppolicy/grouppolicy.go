// internal/app/policy/grouppolicy/grouppolicy.go

// Package grouppolicy provides the authorization predicates for group
// mutations. All predicates are pure functions over the requester's cached
// myGroups entry; callers resolve the entry first (a missing entry is a
// not-found precondition, never silently treated as non-admin).
//
// Authorization rules:
//   - Setting the public flag, renaming, and deleting: admin only
//   - Inviting: any member of the group, admin or not
//   - Removing a member: exactly one of {admin removing someone else,
//     member removing themself} — an admin cannot remove themself through
//     this path, and a non-admin cannot remove anyone else
package grouppolicy

import (
	"github.com/dalemusser/circle360/internal/domain/models"
)

// CanSetPublicFlag reports whether the requester may change the group's
// public flag.
func CanSetPublicFlag(m models.MyGroup) bool {
	return m.Admin
}

// CanRenameGroup reports whether the requester may rename the group.
// Renaming only writes the requester's own profile-side name, but it is
// still admin-gated.
func CanRenameGroup(m models.MyGroup) bool {
	return m.Admin
}

// CanDeleteGroup reports whether the requester may delete the group.
func CanDeleteGroup(m models.MyGroup) bool {
	return m.Admin
}

// CanInvite reports whether the requester may invite users to the group.
// Holding a membership entry is the whole requirement.
func CanInvite(m models.MyGroup) bool {
	return true
}

// CanRemoveMember reports whether the requester may remove targetEmail from
// the group. Admin-removing-other XOR removing-self: admin self-removal and
// non-admin removal of others both fail.
func CanRemoveMember(m models.MyGroup, requesterEmail, targetEmail string) bool {
	self := requesterEmail == targetEmail
	return m.Admin != self
}
