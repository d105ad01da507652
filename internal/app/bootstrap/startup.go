// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/circle360/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after config validation,
// but before the HTTP handler is built. The app tier holds no shared state
// to warm; it just probes the data service so a bad URL is visible at boot
// rather than on the first request. An unreachable service is logged, not
// fatal — the gateway can come up first.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()

	if err := deps.DataService.Ping(probeCtx); err != nil {
		logger.Warn("data service not reachable at startup",
			zap.String("url", appCfg.DataServiceURL),
			zap.Error(err))
		return nil
	}
	logger.Info("data service reachable", zap.String("url", appCfg.DataServiceURL))
	return nil
}
