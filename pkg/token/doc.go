// Package token provides secret generation and verification utilities.
//
// Session secrets are opaque, cryptographically random strings issued
// exactly once at registration. The server never stores a raw secret;
// it keeps only the SHA-256 hash and verifies presented secrets with a
// constant-time comparison.
package token
