// Package command provides CLI command definitions for pollrelay-cli.
//
// Commands:
//
//   - status: server status summary (admin API or local socket)
//   - sessions: list active sessions
//   - broadcast: fan a message out to active sessions
//   - health: server health probe
package command
