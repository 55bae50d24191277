// Package service implements the session engine for pollrelay.
package service

import (
	"github.com/yndnr/pollrelay-go/internal/core/domain"
)

// Send enqueues a payload for a single recipient. Thin wrapper over
// Enqueue, kept as the host-facing name for direct delivery.
func (e *Engine) Send(sess *domain.Session, payload []byte) (string, error) {
	return e.Enqueue(sess, payload)
}

// SendTo enqueues a payload for the session with the given id.
func (e *Engine) SendTo(id string, payload []byte) (string, error) {
	sess, ok := e.sessions.Get(id)
	if !ok {
		return "", domain.ErrUnknownSession.WithDetails("id " + id)
	}
	return e.Enqueue(sess, payload)
}

// Broadcast enqueues a payload into every active session's mailbox
// whose class is not excluded, and returns the number of recipients.
//
// There is no atomicity across the set: each mailbox gets its own
// message with its own id, and a failure for one recipient does not
// roll back the others.
func (e *Engine) Broadcast(payload []byte, exclude domain.ClassSet) (int, error) {
	var firstErr error
	count := 0

	e.sessions.Range(func(_ string, sess *domain.Session) bool {
		if exclude.Contains(sess.Class) {
			return true
		}
		if _, err := e.Enqueue(sess, payload); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		count++
		return true
	})

	e.log.Debug("broadcast fanned out", "recipients", count)
	return count, firstErr
}

// ReceiveInbound transport-decodes each raw message and raises one
// message notification per element.
//
// This path is fire-and-forget: there is no server-side
// queue, no acknowledgment round-trip, and no retry. If the host has no
// Message callback subscribed, the notifications are lost. Payloads are
// all decoded before any notification fires, so a malformed element
// rejects the whole batch instead of dispatching a partial one.
func (e *Engine) ReceiveInbound(sess *domain.Session, encoded []string) error {
	payloads := make([][]byte, 0, len(encoded))
	for _, raw := range encoded {
		payload, err := domain.DecodePayload(raw)
		if err != nil {
			return err
		}
		payloads = append(payloads, payload)
	}

	for _, payload := range payloads {
		if e.metrics != nil {
			e.metrics.MessagesInbound.Inc()
		}
		if e.events.Message != nil {
			e.events.Message(sess, payload)
		}
	}
	return nil
}
