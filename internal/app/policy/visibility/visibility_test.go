package visibility_test

import (
	"testing"

	"github.com/dalemusser/circle360/internal/app/policy/visibility"
	"github.com/dalemusser/circle360/internal/domain/models"
)

// testGroup builds the canonical scenario: the requester (accepted, not
// incognito), an accepted incognito member, and a pending invite.
func testGroup() models.Group {
	return models.Group{
		GroupCode: "abc123",
		Members: []models.Member{
			{
				Email:    "self@test.com",
				Accepted: true,
				User: models.MemberUser{
					Email:    "self@test.com",
					Nickname: "Self",
					Location: models.Location{Latitude: 1, Longitude: 2},
				},
			},
			{
				Email:    "a@test.com",
				Accepted: true,
				User: models.MemberUser{
					Email:     "a@test.com",
					Nickname:  "A",
					Incognito: true,
				},
			},
			{
				Email:    "b@test.com",
				Accepted: false,
				User: models.MemberUser{
					Email:    "b@test.com",
					Nickname: "B",
				},
			},
		},
	}
}

func TestLocations_Scenario(t *testing.T) {
	got := visibility.Locations(testGroup(), "self@test.com")

	if len(got) != 1 {
		t.Fatalf("expected only the requester, got %d entries", len(got))
	}
	if got[0].User.Email != "self@test.com" {
		t.Errorf("expected self@test.com, got %q", got[0].User.Email)
	}
	if got[0].User.Nickname != "Self" {
		t.Errorf("nickname: got %q, want %q", got[0].User.Nickname, "Self")
	}
}

func TestLocations_SelfAlwaysVisible(t *testing.T) {
	// Self stays visible even while incognito and not yet accepted.
	g := models.Group{
		Members: []models.Member{
			{
				Email:    "self@test.com",
				Accepted: false,
				User: models.MemberUser{
					Email:     "self@test.com",
					Incognito: true,
				},
			},
		},
	}

	got := visibility.Locations(g, "self@test.com")
	if len(got) != 1 {
		t.Fatalf("expected self to be visible, got %d entries", len(got))
	}
}

func TestLocations_AcceptedNotIncognitoVisibleToOthers(t *testing.T) {
	g := models.Group{
		Members: []models.Member{
			{Email: "m@test.com", Accepted: true, User: models.MemberUser{Email: "m@test.com"}},
		},
	}

	got := visibility.Locations(g, "someone-else@test.com")
	if len(got) != 1 {
		t.Fatalf("expected accepted non-incognito member to be visible, got %d", len(got))
	}
}

func TestLocations_IncognitoHiddenFromOthers(t *testing.T) {
	g := models.Group{
		Members: []models.Member{
			{Email: "m@test.com", Accepted: true, User: models.MemberUser{Email: "m@test.com", Incognito: true}},
		},
	}

	got := visibility.Locations(g, "someone-else@test.com")
	if len(got) != 0 {
		t.Fatalf("expected incognito member to be hidden, got %d entries", len(got))
	}
}

func TestLocations_PendingHiddenFromOthers(t *testing.T) {
	g := models.Group{
		Members: []models.Member{
			{Email: "m@test.com", Accepted: false, User: models.MemberUser{Email: "m@test.com"}},
		},
	}

	got := visibility.Locations(g, "someone-else@test.com")
	if len(got) != 0 {
		t.Fatalf("expected pending member to be hidden, got %d entries", len(got))
	}
}

func TestRoster_Scenario(t *testing.T) {
	got := visibility.Roster(testGroup(), "self@test.com")

	if len(got) != 1 {
		t.Fatalf("expected [A], got %d entries", len(got))
	}
	if got[0].User.Nickname != "A" {
		t.Errorf("expected A, got %q", got[0].User.Nickname)
	}
	if !got[0].User.Incognito {
		t.Error("expected incognito flag to be exposed as true")
	}
}

func TestRoster_ExcludesRequester(t *testing.T) {
	g := models.Group{
		Members: []models.Member{
			{Email: "self@test.com", Accepted: true, User: models.MemberUser{Email: "self@test.com"}},
		},
	}

	got := visibility.Roster(g, "self@test.com")
	if len(got) != 0 {
		t.Fatalf("roster must never include the requester, got %d entries", len(got))
	}
}

func TestRoster_ExcludesPending(t *testing.T) {
	g := models.Group{
		Members: []models.Member{
			{Email: "m@test.com", Accepted: false, User: models.MemberUser{Email: "m@test.com"}},
		},
	}

	got := visibility.Roster(g, "someone-else@test.com")
	if len(got) != 0 {
		t.Fatalf("roster must exclude pending members, got %d entries", len(got))
	}
}

func TestInvites_Scenario(t *testing.T) {
	got := visibility.Invites(testGroup())

	if len(got) != 1 {
		t.Fatalf("expected [B], got %d entries", len(got))
	}
	if got[0].User.Email != "b@test.com" {
		t.Errorf("expected b@test.com, got %q", got[0].User.Email)
	}
}

func TestInvites_Empty(t *testing.T) {
	g := models.Group{
		Members: []models.Member{
			{Email: "m@test.com", Accepted: true, User: models.MemberUser{Email: "m@test.com"}},
		},
	}

	if got := visibility.Invites(g); len(got) != 0 {
		t.Fatalf("expected no invites, got %d entries", len(got))
	}
}
