// Package handler provides HTTP request handlers for pollrelay.
//
// This package implements the HTTP API endpoints for session
// registration, liveness pings, mailbox fetch and acknowledgment,
// inbound message submission, and administrative operations.
package handler
