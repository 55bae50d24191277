// Package main provides the entry point for pollrelay-cli.
//
// pollrelay-cli is the command-line management tool for a running
// pollrelay server. It talks to the admin HTTP API or, for status, the
// local Unix management socket.
package main

import (
	"os"

	"github.com/yndnr/pollrelay-go/internal/cli/command"
)

func main() {
	command.Run(os.Args)
}
