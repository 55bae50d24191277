// Package connection provides server connections for pollrelay-cli.
//
// Two transports are supported:
//
//   - HTTP(S) against the server's admin API, authenticated with the
//     shared admin token
//   - Unix domain socket against the local management server, which
//     needs no credentials
package connection
