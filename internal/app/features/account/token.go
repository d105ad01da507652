// internal/app/features/account/token.go
package account

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/circle360/internal/app/system/sanitize"
	"github.com/dalemusser/circle360/internal/domain/models"
	"go.uber.org/zap"
)

// tokenRequest is the body of all three token endpoints. Signup and upsert
// use the nickname; login ignores it.
type tokenRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// HandleLogin issues a token for an existing account.
// POST /api/user/login {email} → 200 {token}
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.renderTokenFailure(w, "email is required")
		return
	}
	if !h.Limit.Check(r, req.Email) {
		h.renderTokenThrottled(w)
		return
	}

	user, err := h.Store.GetUser(r.Context(), req.Email)
	if err != nil {
		h.renderTokenFailure(w, err.Error())
		return
	}

	h.renderToken(w, req.Email, user)
}

// HandleSignup creates the account and issues a token.
// POST /api/user/signup {email, nickname} → 200 {token}
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.renderTokenFailure(w, "email is required")
		return
	}
	if !h.Limit.Check(r, req.Email) {
		h.renderTokenThrottled(w)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req.Email, sanitize.Text(req.Nickname))
	if err != nil {
		h.renderTokenFailure(w, err.Error())
		return
	}

	h.renderToken(w, req.Email, user)
}

// HandleUpsert is the unified login/signup: create the account if it does
// not exist yet, then issue a token either way.
// PUT /api/user/token {email, nickname} → 200 {token}
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		h.renderTokenFailure(w, "email is required")
		return
	}
	if !h.Limit.Check(r, req.Email) {
		h.renderTokenThrottled(w)
		return
	}

	user, err := h.Store.UpsertUser(r.Context(), req.Email, sanitize.Text(req.Nickname))
	if err != nil {
		h.renderTokenFailure(w, err.Error())
		return
	}

	h.renderToken(w, req.Email, user)
}

// renderToken mints the bearer token and writes the bare {token} body.
func (h *Handler) renderToken(w http.ResponseWriter, email string, user models.User) {
	token, err := h.Auth.MintToken(email, user.ID)
	if err != nil {
		h.Log.Error("token mint failed", zap.String("email", email), zap.Error(err))
		h.renderTokenFailure(w, "could not create token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// renderTokenThrottled writes the 429 envelope for rate-limited attempts.
func (h *Handler) renderTokenThrottled(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "too many attempts - try again later",
	})
}

// renderTokenFailure writes the 404 envelope the token endpoints use for
// every failure, downstream error text included.
func (h *Handler) renderTokenFailure(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}
