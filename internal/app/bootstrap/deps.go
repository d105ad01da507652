// internal/app/bootstrap/deps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/circle360/internal/app/store/dataservice"
	"github.com/dalemusser/circle360/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Deps holds back-end dependencies for the app. The app tier owns no
// database of its own; its only backend is the downstream data service.
type Deps struct {
	DataService *dataservice.Client
}

// ConnectDB builds the data service client. The connection itself is
// per-request HTTP, so nothing is dialed here; Startup does a reachability
// probe instead.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	timeouts.Configure(timeouts.Config{Downstream: appCfg.HTTPTimeout})
	return Deps{
		DataService: dataservice.New(appCfg.DataServiceURL, timeouts.Downstream(), logger),
	}, nil
}

// EnsureSchema is a no-op: the data service owns all storage and its schema.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	return nil
}
