// Package handler provides HTTP request handlers for pollrelay.
package handler

import (
	"time"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses
// Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// RegisterRequest is the request body for POST /v1/register.
type RegisterRequest struct {
	// ID is the client-chosen session identifier.
	ID string `json:"id"`

	// Class selects the broadcast class. Accepts the numeric values
	// 0/1/2 or the names public/reserved/private; defaults to public.
	Class string `json:"class,omitempty"`
}

// RegisterResponse is the response body for POST /v1/register.
//
// The secret is returned exactly once; the server keeps only a hash.
type RegisterResponse struct {
	SessionID string `json:"session_id"`
	Secret    string `json:"secret"`
	Class     string `json:"class"`
	TimeoutMS int64  `json:"timeout_ms"`
}

// FetchMessagesResponse is the response body for GET /v1/messages.
type FetchMessagesResponse struct {
	Messages []*domain.PendingMessage `json:"messages"`
}

// PostMessagesRequest is the request body for POST /v1/messages.
//
// Each element carries a Base64 payload in the message field; the ids
// and timestamps are client-assigned and not interpreted by the server.
type PostMessagesRequest struct {
	Messages []InboundMessage `json:"messages"`
}

// InboundMessage is one client-submitted message.
type InboundMessage struct {
	MessageID string `json:"message_id,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	Message   string `json:"message"`
}

// AckMessagesRequest is the request body for POST /v1/messages/ack.
type AckMessagesRequest struct {
	IDs []string `json:"ids"`
}

// AckMessagesResponse is the response body for POST /v1/messages/ack.
type AckMessagesResponse struct {
	Acked int `json:"acked"`
}

// BroadcastRequest is the request body for POST /admin/v1/broadcast.
type BroadcastRequest struct {
	// Message is the Base64 encoded payload to fan out.
	Message string `json:"message"`

	// Exclude lists classes to skip (numeric values or names).
	Exclude []string `json:"exclude,omitempty"`
}

// BroadcastResponse is the response body for POST /admin/v1/broadcast.
type BroadcastResponse struct {
	Recipients int `json:"recipients"`
}

// SessionListResponse is the response body for GET /admin/v1/sessions.
type SessionListResponse struct {
	Sessions []domain.View `json:"sessions"`
	Total    int           `json:"total"`
}
