// internal/app/store/dataservice/client.go

// Package dataservice is the typed HTTP client for the downstream data
// service that owns all user and group records. Every method is one
// downstream call; multi-step coordination lives in the workflow layer.
//
// The wire contract mirrors the service's Mongo-backed API: ids are ObjectID
// hex strings, responses arrive wrapped as {"user":…}, {"group":…} or
// {"response":…}, and failures carry {"error":…}. Any non-2xx status is
// returned as a classified error: 404 becomes apierr.NotFound (missing user,
// group, or invite), everything else apierr.Upstream with the downstream
// error text preserved.
package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/circle360/internal/app/system/apierr"
	"github.com/dalemusser/circle360/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Client talks to one data service instance. Safe for concurrent use; all
// state is the shared http.Client.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// New builds a Client for the service at baseURL. timeout bounds every
// downstream call at the transport level; there is no per-step retry.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// envelope covers every response shape the data service produces.
type envelope struct {
	User     *models.User  `json:"user"`
	Group    *models.Group `json:"group"`
	Response string        `json:"response"`
	Error    string        `json:"error"`
}

// do issues one call and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (envelope, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return envelope{}, apierr.FromUpstream(err, "")
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return envelope{}, apierr.FromUpstream(err, "")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error("data service unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return envelope{}, apierr.FromUpstream(err, "")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return envelope{}, apierr.FromUpstream(err, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		cause := fmt.Errorf("data service: %s %s: status %d", method, path, resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			if msg == "" {
				msg = "not found"
			}
			return envelope{}, &apierr.Error{Kind: apierr.NotFound, Message: msg, Err: cause}
		}
		return envelope{}, apierr.FromUpstream(cause, msg)
	}
	return env, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// GetUser fetches the full profile, myGroups included. The service reads the
// email from the request body even on GET; that is its contract, not ours.
func (c *Client) GetUser(ctx context.Context, email string) (models.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/user", map[string]string{"email": email})
	if err != nil {
		return models.User{}, err
	}
	return userOf(env)
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, email, nickname string) (models.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/user", map[string]string{
		"email":    email,
		"nickname": nickname,
	})
	if err != nil {
		return models.User{}, err
	}
	return userOf(env)
}

// UpsertUser creates the account if missing, otherwise returns the existing
// one. Idempotent; backs the unified login/signup token endpoint.
func (c *Client) UpsertUser(ctx context.Context, email, nickname string) (models.User, error) {
	env, err := c.do(ctx, http.MethodPut, "/user/upsert", map[string]string{
		"email":    email,
		"nickname": nickname,
	})
	if err != nil {
		return models.User{}, err
	}
	return userOf(env)
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are left
// out of the request so the service only touches what the caller sent.
type ProfileUpdate struct {
	Email               string           `json:"email"`
	Nickname            *string          `json:"nickname,omitempty"`
	ProfilePictureURL   *string          `json:"profilePictureURL,omitempty"`
	Location            *models.Location `json:"location,omitempty"`
	EnableNotifications *bool            `json:"enableNotifications,omitempty"`
	Incognito           *bool            `json:"incognito,omitempty"`
	UpdateFrequency     *int             `json:"updateFrequency,omitempty"`
	Radius              *float64         `json:"radius,omitempty"`
}

// UpdateUser writes profile fields and returns the updated record.
func (c *Client) UpdateUser(ctx context.Context, upd ProfileUpdate) (models.User, error) {
	env, err := c.do(ctx, http.MethodPut, "/user", upd)
	if err != nil {
		return models.User{}, err
	}
	return userOf(env)
}

// DeleteUser removes the account. The service's confirmation text is
// returned for the response envelope.
func (c *Client) DeleteUser(ctx context.Context, email string) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, "/user", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Response, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Groups                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateGroup creates a group owned by the given user and returns it with
// its generated id and group code.
func (c *Client) CreateGroup(ctx context.Context, email string, userID primitive.ObjectID) (models.Group, error) {
	env, err := c.do(ctx, http.MethodPost, "/group", map[string]string{
		"email":  email,
		"userID": userID.Hex(),
	})
	if err != nil {
		return models.Group{}, err
	}
	return groupOf(env)
}

// GetGroup fetches a group by its code, members populated.
func (c *Client) GetGroup(ctx context.Context, groupCode string) (models.Group, error) {
	env, err := c.do(ctx, http.MethodGet, "/group/"+groupCode, nil)
	if err != nil {
		return models.Group{}, err
	}
	return groupOf(env)
}

// SetGroupPublic writes the group's public flag.
func (c *Client) SetGroupPublic(ctx context.Context, groupCode string, public bool) error {
	_, err := c.do(ctx, http.MethodPut, "/group/"+groupCode, map[string]bool{"public": public})
	return err
}

// DeleteGroup removes the group record. Member profiles are not touched;
// the workflow layer cascades those separately.
func (c *Client) DeleteGroup(ctx context.Context, groupCode string) error {
	_, err := c.do(ctx, http.MethodDelete, "/group/"+groupCode, nil)
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Memberships (user side)                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// AttachGroup adds a myGroups entry to the user's profile.
func (c *Client) AttachGroup(ctx context.Context, groupID primitive.ObjectID, email string, admin bool) error {
	_, err := c.do(ctx, http.MethodPost, "/user/group/"+groupID.Hex(), map[string]any{
		"email": email,
		"admin": admin,
	})
	return err
}

// RenameGroup updates the name on the user's own myGroups entry. This is a
// per-user display name; no shared group field exists to rename.
func (c *Client) RenameGroup(ctx context.Context, groupID primitive.ObjectID, email, name string) error {
	_, err := c.do(ctx, http.MethodPut, "/user/group/"+groupID.Hex(), map[string]string{
		"email": email,
		"name":  name,
	})
	return err
}

// DetachGroup removes the myGroups entry from the user's profile.
func (c *Client) DetachGroup(ctx context.Context, groupID primitive.ObjectID, email string) error {
	_, err := c.do(ctx, http.MethodDelete, "/user/group/"+groupID.Hex(), map[string]string{
		"email": email,
	})
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Memberships (group side)                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateInvite adds a pending (accepted=false) member to the group. The
// invitee's profile is untouched until they accept.
func (c *Client) CreateInvite(ctx context.Context, groupCode, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/group/user/"+groupCode, map[string]string{
		"email": email,
	})
	return err
}

// AcceptInvite marks the pending member accepted and returns the group.
// Fails with a NotFound-kind error when no invite exists for the email.
func (c *Client) AcceptInvite(ctx context.Context, groupCode, email string, userID primitive.ObjectID) (models.Group, error) {
	env, err := c.do(ctx, http.MethodPut, "/group/user/"+groupCode, map[string]string{
		"email":  email,
		"userID": userID.Hex(),
	})
	if err != nil {
		return models.Group{}, err
	}
	return groupOf(env)
}

// RemoveMember deletes the member entry from the group side and returns the
// group so callers have its id for the profile-side cascade.
func (c *Client) RemoveMember(ctx context.Context, groupCode, email string) (models.Group, error) {
	env, err := c.do(ctx, http.MethodDelete, "/group/user/"+groupCode, map[string]string{
		"email": email,
	})
	if err != nil {
		return models.Group{}, err
	}
	return groupOf(env)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Health                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Ping reports whether the data service is reachable. Any HTTP response
// counts; only transport failure is an error.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func userOf(env envelope) (models.User, error) {
	if env.User == nil {
		return models.User{}, apierr.FromUpstream(fmt.Errorf("data service: response missing user"), "")
	}
	return *env.User, nil
}

func groupOf(env envelope) (models.Group, error) {
	if env.Group == nil {
		return models.Group{}, apierr.FromUpstream(fmt.Errorf("data service: response missing group"), "")
	}
	return *env.Group, nil
}
