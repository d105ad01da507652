// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountfeature "github.com/dalemusser/circle360/internal/app/features/account"
	groupsfeature "github.com/dalemusser/circle360/internal/app/features/groups"
	healthfeature "github.com/dalemusser/circle360/internal/app/features/health"
	"github.com/dalemusser/circle360/internal/app/system/auth"
	"github.com/dalemusser/circle360/internal/app/workflow/groupflow"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration and the ConnectDB hook have
// completed. The app tier mounts:
//   - /health        — data service reachability probe
//   - /api/user      — token issuance + profile operations
//   - /api/group     — group views and mutation workflows
//
// Authentication is per-feature, not global: the token endpoints must stay
// reachable without a token, so each feature router applies RequireSignedIn
// to its own protected routes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := auth.NewVerifier(appCfg.TokenSecret, appCfg.TokenTTL, deps.DataService, logger)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	flow := groupflow.New(deps.DataService, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.DataService, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Welcome banner for anyone poking the root
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Welcome to Circle360 app tier"))
	})

	r.Route("/api", func(api chi.Router) {
		accountHandler := accountfeature.NewHandler(deps.DataService, verifier, logger)
		api.Mount("/user", accountfeature.Routes(accountHandler, verifier))

		groupsHandler := groupsfeature.NewHandler(flow, deps.DataService, logger)
		api.Mount("/group", groupsfeature.Routes(groupsHandler, verifier))
	})

	return r, nil
}
