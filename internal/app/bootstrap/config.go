// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the Circle360 app tier.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: data_service_url, token_secret, etc.
//   - Environment variables: CIRCLE360_DATA_SERVICE_URL, CIRCLE360_TOKEN_SECRET, etc.
//   - Command-line flags: --data_service_url, --token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "data_service_url", Default: "http://localhost:5050", Desc: "Base URL of the downstream data service"},
	{Name: "http_timeout", Default: "30s", Desc: "Per-call timeout for data service requests"},
	{Name: "token_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Bearer token signing secret (must be strong in production)"},
	{Name: "token_ttl", Default: "12h", Desc: "Bearer token lifetime (e.g., 12h, 30m)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have access
// to configuration before the data service client and handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CIRCLE360", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DataServiceURL: appValues.String("data_service_url"),
		HTTPTimeout:    appValues.Duration("http_timeout", 30*time.Second),
		TokenSecret:    appValues.String("token_secret"),
		TokenTTL:       appValues.Duration("token_ttl", 12*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The data service URL is checked here so a typo fails fast instead of
// surfacing as per-request upstream errors.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.DataServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid data service URL", zap.String("url", appCfg.DataServiceURL))
		return fmt.Errorf("invalid data service URL: %q", appCfg.DataServiceURL)
	}

	if appCfg.TokenSecret == "" {
		return fmt.Errorf("token_secret must be set")
	}
	if len(appCfg.TokenSecret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(appCfg.TokenSecret)))
	}

	return nil
}
