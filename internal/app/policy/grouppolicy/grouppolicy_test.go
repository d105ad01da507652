package grouppolicy_test

import (
	"testing"

	"github.com/dalemusser/circle360/internal/app/policy/grouppolicy"
	"github.com/dalemusser/circle360/internal/domain/models"
)

func TestAdminOnlyPredicates(t *testing.T) {
	admin := models.MyGroup{Admin: true}
	member := models.MyGroup{Admin: false}

	if !grouppolicy.CanSetPublicFlag(admin) || grouppolicy.CanSetPublicFlag(member) {
		t.Error("CanSetPublicFlag must be admin-only")
	}
	if !grouppolicy.CanRenameGroup(admin) || grouppolicy.CanRenameGroup(member) {
		t.Error("CanRenameGroup must be admin-only")
	}
	if !grouppolicy.CanDeleteGroup(admin) || grouppolicy.CanDeleteGroup(member) {
		t.Error("CanDeleteGroup must be admin-only")
	}
}

func TestCanInvite(t *testing.T) {
	if !grouppolicy.CanInvite(models.MyGroup{Admin: false}) {
		t.Error("any member can invite")
	}
	if !grouppolicy.CanInvite(models.MyGroup{Admin: true}) {
		t.Error("admins can invite")
	}
}

func TestCanRemoveMember(t *testing.T) {
	cases := []struct {
		name      string
		admin     bool
		requester string
		target    string
		want      bool
	}{
		{"admin removes other", true, "admin@test.com", "other@test.com", true},
		{"admin removes self", true, "admin@test.com", "admin@test.com", false},
		{"member removes self", false, "m@test.com", "m@test.com", true},
		{"member removes other", false, "m@test.com", "other@test.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := models.MyGroup{Admin: tc.admin}
			if got := grouppolicy.CanRemoveMember(m, tc.requester, tc.target); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
