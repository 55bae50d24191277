// Package service implements the session engine for pollrelay.
package service

import (
	"github.com/yndnr/pollrelay-go/internal/core/domain"
)

// Enqueue stores a payload in the session's outbox and returns the
// generated message id. The message is redelivered on every Pending
// call until acknowledged; the outbox is unbounded, so a client that
// keeps pinging without acknowledging grows it without limit.
func (e *Engine) Enqueue(sess *domain.Session, payload []byte) (string, error) {
	msg, err := domain.NewPendingMessage(payload)
	if err != nil {
		return "", err
	}
	sess.Enqueue(msg)

	if e.metrics != nil {
		e.metrics.MessagesEnqueued.Inc()
	}
	e.log.Debug("message enqueued",
		"session_id", sess.ID,
		"message_id", msg.ID,
		"bytes", len(payload))
	return msg.ID, nil
}

// Pending returns the session's unacknowledged messages in insertion
// order. Each call is a fresh snapshot: at-least-once delivery means a
// message appears in every fetch until the client acknowledges it.
func (e *Engine) Pending(sess *domain.Session) []*domain.PendingMessage {
	msgs := sess.Pending()
	if e.metrics != nil && len(msgs) > 0 {
		e.metrics.MessagesDelivered.Add(float64(len(msgs)))
	}
	return msgs
}

// Acknowledge removes the named messages from the session's outbox.
// Unknown ids are silently ignored so retried acknowledgments are safe.
func (e *Engine) Acknowledge(sess *domain.Session, ids []string) {
	removed := sess.Acknowledge(ids)
	if e.metrics != nil && removed > 0 {
		e.metrics.MessagesAcked.Add(float64(removed))
	}
	if removed < len(ids) {
		e.log.Debug("acknowledge skipped unknown ids",
			"session_id", sess.ID,
			"requested", len(ids),
			"removed", removed)
	}
}
