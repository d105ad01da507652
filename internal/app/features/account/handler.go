// internal/app/features/account/handler.go
package account

import (
	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/dalemusser/circle360/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the account feature: the
// token endpoints (login, signup, upsert) and the authenticated profile
// operations.
type Handler struct {
	Store *dataservice.Client
	Auth  *auth.Verifier
	Limit *ratelimit.TokenLimiter
	Log   *zap.Logger
}

// NewHandler constructs an account Handler. Called from bootstrap
// BuildHandler once the data service client and verifier exist.
func NewHandler(store *dataservice.Client, verifier *auth.Verifier, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Auth:  verifier,
		Limit: ratelimit.NewTokenLimiter(),
		Log:   logger,
	}
}
