// Package domain defines the core domain models for pollrelay.
package domain

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// MessageIDPrefix is the prefix for message IDs.
const MessageIDPrefix = "prm-"

// PendingMessage is one unit of outbound payload awaiting pickup.
//
// The payload is held transport-encoded so it can be embedded in JSON
// bodies verbatim; it stays in its session's outbox until the client
// acknowledges it by id.
type PendingMessage struct {
	// ID is the server-generated unique identifier.
	// Format: prm-{ulid_lowercase}, 30 characters total.
	ID string `json:"message_id"`

	// CreatedAt is the enqueue timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	// Payload is the Base64 (std) encoded message content.
	Payload string `json:"message"`
}

// NewPendingMessage creates a message with a generated ID and the
// payload transport-encoded.
func NewPendingMessage(payload []byte) (*PendingMessage, error) {
	id, err := NewMessageID()
	if err != nil {
		return nil, err
	}
	return &PendingMessage{
		ID:        id,
		CreatedAt: time.Now().UnixMilli(),
		Payload:   EncodePayload(payload),
	}, nil
}

// NewMessageID generates a new message ID using ULID.
func NewMessageID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return MessageIDPrefix + strings.ToLower(id.String()), nil
}

// DecodedPayload returns the raw payload bytes.
func (m *PendingMessage) DecodedPayload() ([]byte, error) {
	return DecodePayload(m.Payload)
}

// CreatedAtTime returns CreatedAt as time.Time.
func (m *PendingMessage) CreatedAtTime() time.Time {
	return time.UnixMilli(m.CreatedAt)
}

// Clone creates a copy of the message.
func (m *PendingMessage) Clone() *PendingMessage {
	clone := *m
	return &clone
}

// EncodePayload transport-encodes raw payload bytes for embedding in
// text bodies. Both directions of the protocol use the same encoding.
func EncodePayload(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}

// DecodePayload reverses EncodePayload.
func DecodePayload(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrBadRequest.WithDetails("payload is not valid base64").WithCause(err)
	}
	return raw, nil
}
