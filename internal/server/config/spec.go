// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for pollrelay-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Session  SessionSection  `koanf:"session"`
	Security SecuritySection `koanf:"security"`
	Limits   LimitsSection   `koanf:"limits"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP  HTTPConfig  `koanf:"http"`
	Local LocalConfig `koanf:"local"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// LocalConfig configures the local management socket.
type LocalConfig struct {
	// Path is the Unix socket path; empty disables the local server.
	Path string `koanf:"path"`
}

// SessionSection configures session lifecycle behavior.
type SessionSection struct {
	// Timeout is the liveness window: a session with no authenticated
	// request for this long is evicted. Fixed for the server's lifetime.
	Timeout time.Duration `koanf:"timeout"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// AdminToken protects the /admin/v1 endpoints. Empty disables them.
	AdminToken string `koanf:"admin_token"`
}

// LimitsSection configures request throttling.
type LimitsSection struct {
	// RateLimit is the per-IP request budget in requests/second.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
