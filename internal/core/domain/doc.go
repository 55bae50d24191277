// Package domain defines the core domain models for pollrelay.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling: the Session record with its
// per-session outbox, the PendingMessage envelope, the client class
// enum used for broadcast filtering, and the structured error taxonomy.
package domain
