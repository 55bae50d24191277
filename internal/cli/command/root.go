// Package command provides CLI command definitions for pollrelay-cli.
//
// It uses urfave/cli/v2 for command parsing.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pollrelay-go/internal/cli/connection"
	"github.com/yndnr/pollrelay-go/internal/cli/output"
	"github.com/yndnr/pollrelay-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "pollrelay-cli",
		Usage:   "pollrelay command-line management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StatusCommand(),
			SessionsCommand(),
			BroadcastCommand(),
			HealthCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "pollrelay server address (e.g., localhost:8420)",
			EnvVars: []string{"POLLRELAY_SERVER"},
			Value:   "localhost:8420",
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Aliases: []string{"t"},
			Usage:   "Admin token for the admin API",
			EnvVars: []string{"POLLRELAY_ADMIN_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "socket",
			Usage:   "Unix socket path for local management access",
			EnvVars: []string{"POLLRELAY_SOCKET"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
	}
}

// newClient builds the admin HTTP client from global flags.
func newClient(c *cli.Context) *connection.HTTPClient {
	return connection.NewHTTPClient(c.String("server"), c.String("admin-token"))
}

// formatter builds the output formatter from global flags.
func formatter(c *cli.Context) (output.Formatter, error) {
	return output.New(c.String("output"))
}

// Run executes the CLI application.
func Run(args []string) {
	if err := App().Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
