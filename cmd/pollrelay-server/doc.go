// Package main provides the entry point for pollrelay-server.
//
// The server is the pollrelay service process that provides:
//
//   - HTTP/HTTPS API for session registration, polling, and delivery
//   - Prometheus metrics on /metrics
//   - Local Unix socket for management access (no credentials required)
//
// Usage:
//
//	pollrelay-server [flags]
//	pollrelay-server --config /path/to/config.yaml
//
// The server loads configuration, initializes the session engine, and
// starts all configured listeners.
package main
