// Package service implements the session engine for pollrelay.
//
// The Engine is the single in-memory authority over sessions: it owns
// the registry, the per-session liveness timers, the mailbox
// operations, and the dispatch/broadcast fan-out. The hosting
// application observes connect, disconnect, and inbound-message events
// through the Events callbacks registered at construction.
package service
