package server

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/timestables/internal/auth"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Addr is the listen address. Default: ":3000".
	Addr string

	// Mode selects gin's mode: "debug", "release", or "test".
	Mode string

	// SessionTTL is how long a login stays valid.
	SessionTTL time.Duration

	// AllowedOrigins lists the CORS origins permitted to call the API.
	AllowedOrigins []string

	// SweepInterval is how often expired sessions are purged.
	SweepInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":3000",
		Mode:       gin.ReleaseMode,
		SessionTTL: auth.DefaultSessionTTL,
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		SweepInterval: time.Hour,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling
// back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if a := os.Getenv("TIMESTABLES_ADDR"); a != "" {
		cfg.Addr = a
	}
	if m := os.Getenv("TIMESTABLES_MODE"); m != "" {
		cfg.Mode = m
	}
	if v := os.Getenv("TIMESTABLES_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("TIMESTABLES_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	if v := os.Getenv("TIMESTABLES_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}

	return cfg
}
