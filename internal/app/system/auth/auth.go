// internal/app/system/auth/auth.go

// Package auth verifies bearer credentials and resolves them to a requester
// with a freshly fetched profile.
//
// Tokens are HS256 JWTs carrying {email, userID} plus registered claims,
// valid for the configured TTL (12h by default). Verification re-fetches the
// user from the data service on every request, so role and membership
// changes take effect immediately; the fetched profile is request-scoped and
// may be stale within the request if mutated concurrently, which is accepted.
//
// Every failure mode — missing header, malformed or expired token, bad
// signature, user gone from the store — surfaces as the same generic 401
// {"error":"Not authorized"}. Nothing about the cause is leaked.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// Verifier mints and verifies bearer tokens and loads the requester profile.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	store  *dataservice.Client
	log    *zap.Logger
}

// tokenClaims is the token payload: the identity pair plus registered claims.
type tokenClaims struct {
	Email  string `json:"email"`
	UserID string `json:"userID"`
	jwt.RegisteredClaims
}

// NewVerifier builds a Verifier. The secret must be non-empty; short secrets
// are accepted with a warning so local dev keeps working.
func NewVerifier(secret string, ttl time.Duration, store *dataservice.Client, logger *zap.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Verifier{secret: []byte(secret), ttl: ttl, store: store, log: logger}, nil
}

// MintToken issues a signed bearer token for the identity pair.
func (v *Verifier) MintToken(email string, userID primitive.ObjectID) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Email:  email,
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// verify parses the token and returns the email claim.
func (v *Verifier) verify(token string) (string, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", fmt.Errorf("token has no email claim")
	}
	return claims.Email, nil
}

// RequireSignedIn authenticates the request and injects the requester's
// fresh profile into the context. One read call to the data service per
// request; no caching across requests.
func (v *Verifier) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			renderNotAuthorized(w)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			renderNotAuthorized(w)
			return
		}

		email, err := v.verify(token)
		if err != nil {
			v.log.Debug("token verification failed", zap.Error(err))
			renderNotAuthorized(w)
			return
		}

		user, err := v.store.GetUser(r.Context(), email)
		if err != nil {
			// A valid token for a deleted user gets the same generic 401.
			v.log.Debug("token user not resolvable", zap.String("email", email), zap.Error(err))
			renderNotAuthorized(w)
			return
		}

		next.ServeHTTP(w, withUser(r, &user))
	})
}

// CurrentUser returns the authenticated requester & "found?" flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// WithTestUser injects a requester into the request context, bypassing token
// verification. For handler tests only.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func renderNotAuthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Not authorized"})
}
