// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr    = "127.0.0.1:8420"
	DefaultLocalSocket = ""

	// DefaultSessionTimeout matches the protocol's 5000ms liveness window.
	DefaultSessionTimeout = 5000 * time.Millisecond

	DefaultRateLimit = 200

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			Local: LocalConfig{
				Path: DefaultLocalSocket,
			},
		},
		Session: SessionSection{
			Timeout: DefaultSessionTimeout,
		},
		Limits: LimitsSection{
			RateLimit: DefaultRateLimit,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
