package groupflow_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/app/system/apierr"
	"github.com/dalemusser/circle360/internal/app/workflow/groupflow"
	"github.com/dalemusser/circle360/internal/domain/models"
	"github.com/dalemusser/circle360/internal/testutil"
)

func newEngine(t *testing.T) (*groupflow.Engine, *testutil.DataService) {
	t.Helper()
	d := testutil.NewDataService(t)
	store := dataservice.New(d.URL(), 2*time.Second, zap.NewNop())
	return groupflow.New(store, zap.NewNop()), d
}

// seedGroup seeds a group with the given members and returns the stored
// record, id populated, for building requester membership snapshots.
func seedGroup(t *testing.T, d *testutil.DataService, code string, members ...models.Member) models.Group {
	t.Helper()
	g := models.Group{GroupCode: code, Members: members}
	d.AddGroup(g)
	seeded, _ := d.Group(code)
	return seeded
}

func requesterFor(g models.Group, email string, admin bool) models.User {
	return models.User{
		Email:    email,
		MyGroups: []models.MyGroup{{Group: g, Name: "mine", Admin: admin}},
	}
}

func TestCreateGroup(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "a@test.com", Nickname: "A"})
	owner, _ := d.User("a@test.com")

	code, err := e.CreateGroup(context.Background(), owner)
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if code == "" {
		t.Fatal("expected a group code")
	}

	// Exactly two downstream calls: the group record, then the admin attach.
	if got := d.Calls(); len(got) != 2 ||
		got[0] != "POST /group" || got[1][:17] != "POST /user/group/" {
		t.Errorf("calls: %v", got)
	}

	u, _ := d.User("a@test.com")
	if len(u.MyGroups) != 1 || !u.MyGroups[0].Admin {
		t.Errorf("expected one admin membership on the profile, got %+v", u.MyGroups)
	}
}

func TestCreateGroup_TwiceMakesTwoGroups(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "a@test.com"})
	owner, _ := d.User("a@test.com")

	first, err := e.CreateGroup(context.Background(), owner)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := e.CreateGroup(context.Background(), owner)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first == second {
		t.Error("expected two distinct groups")
	}

	u, _ := d.User("a@test.com")
	if len(u.MyGroups) != 2 {
		t.Errorf("expected two memberships, got %d", len(u.MyGroups))
	}
}

func TestCreateGroup_AttachFailureLeavesOrphanGroup(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "a@test.com"})
	owner, _ := d.User("a@test.com")
	d.FailOn("POST /user/group/")

	if _, err := e.CreateGroup(context.Background(), owner); err == nil {
		t.Fatal("expected an error")
	}
	// Step 1 committed: the group record exists even though the caller got
	// an error back.
	if d.CallsTo("POST /group") != 1 {
		t.Error("group creation call not issued")
	}
	u, _ := d.User("a@test.com")
	if len(u.MyGroups) != 0 {
		t.Errorf("profile must be untouched, got %+v", u.MyGroups)
	}
}

func TestUpdateGroup(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "a@test.com"})
	g := seedGroup(t, d, "abc123", models.Member{Email: "a@test.com", Accepted: true})
	req := requesterFor(g, "a@test.com", true)
	d.AddUser(req)

	public := true
	if err := e.UpdateGroup(context.Background(), req, "abc123", &public, "renamed"); err != nil {
		t.Fatalf("UpdateGroup: %v", err)
	}

	got, _ := d.Group("abc123")
	if !got.Public {
		t.Error("public flag not written")
	}
	u, _ := d.User("a@test.com")
	if u.MyGroups[0].Name != "renamed" {
		t.Errorf("name: got %q", u.MyGroups[0].Name)
	}
}

func TestUpdateGroup_NeitherFieldIsBadRequest(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123")
	req := requesterFor(g, "a@test.com", true)

	err := e.UpdateGroup(context.Background(), req, "abc123", nil, "")
	if apierr.KindOf(err) != apierr.BadRequest {
		t.Fatalf("kind: got %v, want BadRequest", apierr.KindOf(err))
	}
	if len(d.Calls()) != 0 {
		t.Errorf("no downstream call expected, got %v", d.Calls())
	}
}

func TestUpdateGroup_NonAdmin(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123")
	req := requesterFor(g, "a@test.com", false)

	public := true
	err := e.UpdateGroup(context.Background(), req, "abc123", &public, "")
	if apierr.KindOf(err) != apierr.Forbidden {
		t.Fatalf("kind: got %v, want Forbidden", apierr.KindOf(err))
	}
	if len(d.Calls()) != 0 {
		t.Errorf("guard must run before any downstream call, got %v", d.Calls())
	}
}

func TestUpdateGroup_NotAMember(t *testing.T) {
	e, _ := newEngine(t)

	public := true
	err := e.UpdateGroup(context.Background(), models.User{Email: "a@test.com"}, "abc123", &public, "")
	if apierr.KindOf(err) != apierr.NotFound {
		t.Fatalf("kind: got %v, want NotFound", apierr.KindOf(err))
	}
}

func TestDeleteGroup_CascadesAcceptedOnly(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "admin@test.com"})
	d.AddUser(models.User{Email: "b@test.com"})
	g := seedGroup(t, d, "abc123",
		models.Member{Email: "admin@test.com", Accepted: true},
		models.Member{Email: "b@test.com", Accepted: true},
		models.Member{Email: "pending@test.com", Accepted: false},
	)
	req := requesterFor(g, "admin@test.com", true)
	d.AddUser(req)
	// b's profile carries the membership so the detach has something to hit.
	d.AddUser(models.User{Email: "b@test.com", MyGroups: []models.MyGroup{{Group: g}}})

	if err := e.DeleteGroup(context.Background(), req, "abc123"); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}

	if _, ok := d.Group("abc123"); ok {
		t.Error("group record still exists")
	}
	// One detach per accepted member, none for the pending invite.
	if got := d.CallsTo("DELETE /user/group/"); got != 2 {
		t.Errorf("detach calls: got %d, want 2", got)
	}
	b, _ := d.User("b@test.com")
	if len(b.MyGroups) != 0 {
		t.Errorf("member profile still references the group: %+v", b.MyGroups)
	}
}

func TestDeleteGroup_NonAdminMutatesNothing(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123", models.Member{Email: "a@test.com", Accepted: true})
	req := requesterFor(g, "a@test.com", false)

	err := e.DeleteGroup(context.Background(), req, "abc123")
	if apierr.KindOf(err) != apierr.Forbidden {
		t.Fatalf("kind: got %v, want Forbidden", apierr.KindOf(err))
	}
	if len(d.Calls()) != 0 {
		t.Errorf("zero downstream calls expected, got %v", d.Calls())
	}
	if _, ok := d.Group("abc123"); !ok {
		t.Error("group must survive")
	}
}

func TestInvite(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123", models.Member{Email: "a@test.com", Accepted: true})
	req := requesterFor(g, "a@test.com", false) // any member may invite

	if err := e.Invite(context.Background(), req, "abc123", "new@test.com"); err != nil {
		t.Fatalf("Invite: %v", err)
	}

	got, _ := d.Group("abc123")
	m, ok := got.FindMember("new@test.com")
	if !ok {
		t.Fatal("invite not recorded on the group")
	}
	if m.Accepted {
		t.Error("invite must start pending")
	}
	if _, exists := d.User("new@test.com"); exists {
		t.Error("invitee profile must be untouched")
	}
}

func TestInvite_NonMember(t *testing.T) {
	e, d := newEngine(t)
	seedGroup(t, d, "abc123")

	err := e.Invite(context.Background(), models.User{Email: "outsider@test.com"}, "abc123", "new@test.com")
	if apierr.KindOf(err) != apierr.NotFound {
		t.Fatalf("kind: got %v, want NotFound", apierr.KindOf(err))
	}
	if len(d.Calls()) != 0 {
		t.Errorf("zero downstream calls expected, got %v", d.Calls())
	}
}

func TestAccept(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "b@test.com"})
	invitee, _ := d.User("b@test.com")
	seedGroup(t, d, "abc123",
		models.Member{Email: "a@test.com", Accepted: true},
		models.Member{Email: "b@test.com", Accepted: false},
	)

	if err := e.Accept(context.Background(), invitee, "abc123"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	g, _ := d.Group("abc123")
	m, _ := g.FindMember("b@test.com")
	if !m.Accepted {
		t.Error("group-side record not accepted")
	}
	u, _ := d.User("b@test.com")
	if len(u.MyGroups) != 1 {
		t.Fatalf("expected one membership, got %d", len(u.MyGroups))
	}
	if u.MyGroups[0].Admin {
		t.Error("acceptance must join as non-admin")
	}
}

func TestAccept_WithoutInviteMutatesNothing(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "b@test.com"})
	invitee, _ := d.User("b@test.com")
	seedGroup(t, d, "abc123", models.Member{Email: "a@test.com", Accepted: true})

	err := e.Accept(context.Background(), invitee, "abc123")
	if apierr.KindOf(err) != apierr.NotFound {
		t.Fatalf("kind: got %v, want NotFound", apierr.KindOf(err))
	}
	u, _ := d.User("b@test.com")
	if len(u.MyGroups) != 0 {
		t.Errorf("profile must be untouched, got %+v", u.MyGroups)
	}
	if got := d.CallsTo("POST /user/group/"); got != 0 {
		t.Errorf("no attach call expected, got %d", got)
	}
}

func TestRemoveMember_AdminRemovesAccepted(t *testing.T) {
	e, d := newEngine(t)
	d.AddUser(models.User{Email: "admin@test.com"})
	g := seedGroup(t, d, "abc123",
		models.Member{Email: "admin@test.com", Accepted: true},
		models.Member{Email: "b@test.com", Accepted: true},
	)
	req := requesterFor(g, "admin@test.com", true)
	d.AddUser(models.User{Email: "b@test.com", MyGroups: []models.MyGroup{{Group: g}}})

	if err := e.RemoveMember(context.Background(), req, "abc123", "b@test.com"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	got, _ := d.Group("abc123")
	if _, ok := got.FindMember("b@test.com"); ok {
		t.Error("member still on the group")
	}
	b, _ := d.User("b@test.com")
	if len(b.MyGroups) != 0 {
		t.Errorf("member profile still references the group: %+v", b.MyGroups)
	}
}

func TestRemoveMember_PendingSkipsDetach(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123",
		models.Member{Email: "admin@test.com", Accepted: true},
		models.Member{Email: "pending@test.com", Accepted: false},
	)
	req := requesterFor(g, "admin@test.com", true)

	if err := e.RemoveMember(context.Background(), req, "abc123", "pending@test.com"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	got, _ := d.Group("abc123")
	if _, ok := got.FindMember("pending@test.com"); ok {
		t.Error("pending record still on the group")
	}
	if got := d.CallsTo("DELETE /user/group/"); got != 0 {
		t.Errorf("no profile-side detach call expected for a pending invite, got %d", got)
	}
}

func TestRemoveMember_SelfLeave(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123",
		models.Member{Email: "admin@test.com", Accepted: true},
		models.Member{Email: "b@test.com", Accepted: true},
	)
	req := requesterFor(g, "b@test.com", false)
	d.AddUser(req)

	if err := e.RemoveMember(context.Background(), req, "abc123", "b@test.com"); err != nil {
		t.Fatalf("self-leave: %v", err)
	}
	b, _ := d.User("b@test.com")
	if len(b.MyGroups) != 0 {
		t.Errorf("profile still references the group: %+v", b.MyGroups)
	}
}

func TestRemoveMember_GuardMatrix(t *testing.T) {
	cases := []struct {
		name   string
		admin  bool
		target string
	}{
		{"admin removing self", true, "req@test.com"},
		{"member removing other", false, "other@test.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, d := newEngine(t)
			g := seedGroup(t, d, "abc123",
				models.Member{Email: "req@test.com", Accepted: true},
				models.Member{Email: "other@test.com", Accepted: true},
			)
			req := requesterFor(g, "req@test.com", tc.admin)

			err := e.RemoveMember(context.Background(), req, "abc123", tc.target)
			if apierr.KindOf(err) != apierr.Forbidden {
				t.Fatalf("kind: got %v, want Forbidden", apierr.KindOf(err))
			}
			if len(d.Calls()) != 0 {
				t.Errorf("zero downstream calls expected, got %v", d.Calls())
			}
		})
	}
}

func TestRemoveMember_UnknownTarget(t *testing.T) {
	e, d := newEngine(t)
	g := seedGroup(t, d, "abc123", models.Member{Email: "admin@test.com", Accepted: true})
	req := requesterFor(g, "admin@test.com", true)

	err := e.RemoveMember(context.Background(), req, "abc123", "ghost@test.com")
	if apierr.KindOf(err) != apierr.NotFound {
		t.Fatalf("kind: got %v, want NotFound", apierr.KindOf(err))
	}
	if len(d.Calls()) != 0 {
		t.Errorf("zero downstream calls expected, got %v", d.Calls())
	}
}
