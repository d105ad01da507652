// internal/app/system/timeouts/timeouts.go

// Package timeouts holds the centralized time budgets for calls to the data
// service. Handlers and the health probe read from here instead of carrying
// their own literals, so a deployment-wide adjustment is one Configure call
// at startup.
package timeouts

import (
	"sync"
	"time"
)

// Defaults, used until Configure is called.
const (
	DefaultPing       = 5 * time.Second
	DefaultDownstream = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping       = DefaultPing
	downstream = DefaultDownstream
)

// Ping returns the budget for reachability probes: the health endpoint and
// the startup connectivity check.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Downstream returns the budget for a regular data service call. This is the
// transport-level timeout on the shared HTTP client.
func Downstream() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return downstream
}

// Config carries overrides for Configure. Zero values keep the current
// settings.
type Config struct {
	Ping       time.Duration
	Downstream time.Duration
}

// Configure sets the budgets. Called once during startup, before the data
// service client is built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Downstream > 0 {
		downstream = cfg.Downstream
	}
}
