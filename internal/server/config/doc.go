// Package config defines the server configuration structure.
//
// Configuration is loaded with priority Env > File > Default; see
// internal/infra/confloader for the loading mechanism.
package config
