package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/circle360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DataService is an in-memory stand-in for the downstream data service,
// served over httptest. It implements the full consumed contract (user CRUD,
// group CRUD, both membership sides) and records every call it receives so
// tests can assert which downstream endpoints were — and were not — hit.
type DataService struct {
	t *testing.T

	mu     sync.Mutex
	users  map[string]*models.User  // by email
	groups map[string]*models.Group // by group code
	calls  []string
	fail   []string // "METHOD path" prefixes forced to fail

	srv *httptest.Server
}

// NewDataService starts a fake data service. It is shut down automatically
// when the test finishes.
func NewDataService(t *testing.T) *DataService {
	t.Helper()

	d := &DataService{
		t:      t,
		users:  make(map[string]*models.User),
		groups: make(map[string]*models.Group),
	}

	r := chi.NewRouter()
	r.Use(d.record)

	r.Get("/user", d.getUser)
	r.Post("/user", d.createUser)
	r.Put("/user/upsert", d.upsertUser)
	r.Put("/user", d.updateUser)
	r.Delete("/user", d.deleteUser)

	r.Post("/group", d.createGroup)
	r.Get("/group/{groupCode}", d.getGroup)
	r.Put("/group/{groupCode}", d.setGroupPublic)
	r.Delete("/group/{groupCode}", d.deleteGroup)

	r.Post("/user/group/{groupID}", d.attachGroup)
	r.Put("/user/group/{groupID}", d.renameGroup)
	r.Delete("/user/group/{groupID}", d.detachGroup)

	r.Post("/group/user/{groupCode}", d.createInvite)
	r.Put("/group/user/{groupCode}", d.acceptInvite)
	r.Delete("/group/user/{groupCode}", d.removeMember)

	d.srv = httptest.NewServer(r)
	t.Cleanup(d.srv.Close)
	return d
}

// URL returns the base URL clients should be pointed at.
func (d *DataService) URL() string { return d.srv.URL }

// Calls returns every call received so far as "METHOD /path" strings,
// in order.
func (d *DataService) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// CallsTo counts recorded calls whose "METHOD /path" begins with prefix.
func (d *DataService) CallsTo(prefix string) int {
	n := 0
	for _, c := range d.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// FailOn makes every request whose "METHOD /path" begins with prefix
// answer 500 {"error":"forced failure"}.
func (d *DataService) FailOn(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = append(d.fail, prefix)
}

// AddUser seeds a user record.
func (d *DataService) AddUser(u models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := u
	d.users[u.Email] = &cp
}

// AddGroup seeds a group record.
func (d *DataService) AddGroup(g models.Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	cp := g
	d.groups[g.GroupCode] = &cp
}

// Group returns the current group record for code.
func (d *DataService) Group(code string) (models.Group, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[code]
	if !ok {
		return models.Group{}, false
	}
	return *g, true
}

// User returns the current user record for email.
func (d *DataService) User(email string) (models.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[email]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| HTTP plumbing                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (d *DataService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := r.Method + " " + r.URL.Path

		d.mu.Lock()
		d.calls = append(d.calls, call)
		forced := false
		for _, p := range d.fail {
			if strings.HasPrefix(call, p) {
				forced = true
				break
			}
		}
		d.mu.Unlock()

		if forced {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "forced failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decode(r *http.Request, into any) {
	_ = json.NewDecoder(r.Body).Decode(into)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (d *DataService) getUser(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[req.Email]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (d *DataService) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Nickname string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.users[req.Email]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user already exists"})
		return
	}
	u := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    req.Email,
		Nickname: req.Nickname,
		MyGroups: []models.MyGroup{},
	}
	d.users[req.Email] = u
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (d *DataService) upsertUser(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Nickname string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	if u, exists := d.users[req.Email]; exists {
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
		return
	}
	u := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    req.Email,
		Nickname: req.Nickname,
		MyGroups: []models.MyGroup{},
	}
	d.users[req.Email] = u
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (d *DataService) updateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email               string           `json:"email"`
		Nickname            *string          `json:"nickname"`
		ProfilePictureURL   *string          `json:"profilePictureURL"`
		Location            *models.Location `json:"location"`
		EnableNotifications *bool            `json:"enableNotifications"`
		Incognito           *bool            `json:"incognito"`
		UpdateFrequency     *int             `json:"updateFrequency"`
		Radius              *float64         `json:"radius"`
	}
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[req.Email]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	if req.Nickname != nil {
		u.Nickname = *req.Nickname
	}
	if req.ProfilePictureURL != nil {
		u.ProfilePictureURL = *req.ProfilePictureURL
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.EnableNotifications != nil {
		u.EnableNotifications = *req.EnableNotifications
	}
	if req.Incognito != nil {
		u.Incognito = *req.Incognito
	}
	if req.UpdateFrequency != nil {
		u.UpdateFrequency = *req.UpdateFrequency
	}
	if req.Radius != nil {
		u.Radius = *req.Radius
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (d *DataService) deleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[req.Email]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	delete(d.users, req.Email)
	writeJSON(w, http.StatusOK, map[string]string{"response": "user deleted"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Groups                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (d *DataService) createGroup(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, UserID string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()

	id := primitive.NewObjectID()
	g := &models.Group{
		ID:        id,
		GroupCode: id.Hex()[18:], // short shareable code, unique enough for tests
		Members:   []models.Member{},
	}
	// The real service records the creator as an accepted member.
	member := models.Member{Email: req.Email, Accepted: true}
	if u, ok := d.users[req.Email]; ok {
		member.User = memberUserOf(u)
	} else {
		member.User = models.MemberUser{Email: req.Email}
	}
	g.Members = append(g.Members, member)

	d.groups[g.GroupCode] = g
	writeJSON(w, http.StatusOK, map[string]any{"group": g})
}

func (d *DataService) getGroup(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[chi.URLParam(r, "groupCode")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": g})
}

func (d *DataService) setGroupPublic(w http.ResponseWriter, r *http.Request) {
	var req struct{ Public bool }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[chi.URLParam(r, "groupCode")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	g.Public = req.Public
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (d *DataService) deleteGroup(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	code := chi.URLParam(r, "groupCode")
	if _, ok := d.groups[code]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	delete(d.groups, code)
	writeJSON(w, http.StatusOK, map[string]any{})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Memberships                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (d *DataService) findGroupByID(hexID string) *models.Group {
	for _, g := range d.groups {
		if g.ID.Hex() == hexID {
			return g
		}
	}
	return nil
}

func (d *DataService) attachGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Admin bool   `json:"admin"`
	}
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[req.Email]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	g := d.findGroupByID(chi.URLParam(r, "groupID"))
	if g == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	u.MyGroups = append(u.MyGroups, models.MyGroup{Group: *g, Admin: req.Admin})
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (d *DataService) renameGroup(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Name string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[req.Email]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	hexID := chi.URLParam(r, "groupID")
	for i := range u.MyGroups {
		if u.MyGroups[i].Group.ID.Hex() == hexID {
			u.MyGroups[i].Name = req.Name
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "membership not found"})
}

func (d *DataService) detachGroup(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[req.Email]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	hexID := chi.URLParam(r, "groupID")
	for i := range u.MyGroups {
		if u.MyGroups[i].Group.ID.Hex() == hexID {
			u.MyGroups = append(u.MyGroups[:i], u.MyGroups[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "membership not found"})
}

func (d *DataService) createInvite(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[chi.URLParam(r, "groupCode")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	member := models.Member{Email: req.Email, Accepted: false}
	if u, exists := d.users[req.Email]; exists {
		member.User = memberUserOf(u)
	} else {
		member.User = models.MemberUser{Email: req.Email}
	}
	g.Members = append(g.Members, member)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (d *DataService) acceptInvite(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[chi.URLParam(r, "groupCode")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	for i := range g.Members {
		if g.Members[i].Email == req.Email && !g.Members[i].Accepted {
			g.Members[i].Accepted = true
			writeJSON(w, http.StatusOK, map[string]any{"group": g})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "no invite for this user"})
}

func (d *DataService) removeMember(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email string }
	decode(r, &req)

	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.groups[chi.URLParam(r, "groupCode")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	for i := range g.Members {
		if g.Members[i].Email == req.Email {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"group": g})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
}

func memberUserOf(u *models.User) models.MemberUser {
	return models.MemberUser{
		ID:                u.ID,
		Email:             u.Email,
		Nickname:          u.Nickname,
		ProfilePictureURL: u.ProfilePictureURL,
		Location:          u.Location,
		Incognito:         u.Incognito,
	}
}
