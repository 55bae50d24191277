// Package httpserver provides the HTTP/HTTPS server for pollrelay.
//
// This package implements the primary external API using stdlib net/http:
//
//   - Registration: POST /v1/register
//   - Liveness: POST /v1/ping
//   - Mailbox: GET /v1/messages, POST /v1/messages/ack
//   - Inbound: POST /v1/messages
//   - Admin endpoints: /admin/v1/*
//   - Health endpoints: /health, /ready, /metrics
//
// Features:
//
//   - TLS support via configured certificate pair
//   - Middleware chain: RequestID, Recover, RateLimit, Audit, Auth
//   - Graceful shutdown with configurable timeout
//   - Prometheus metrics integration
package httpserver
