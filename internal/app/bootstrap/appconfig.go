// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS, body limits); AppConfig is everything specific to the Circle360 app
// tier. The struct is passed to most lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// Downstream data service configuration
	DataServiceURL string        // Base URL of the data service (e.g., http://localhost:5050)
	HTTPTimeout    time.Duration // Per-call timeout for data service requests

	// Bearer token configuration
	TokenSecret string        // HS256 signing secret (must be strong in production)
	TokenTTL    time.Duration // Token lifetime (default: 12h)
}
