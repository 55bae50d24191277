// Package command provides CLI command definitions for pollrelay-cli.
package command

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pollrelay-go/internal/cli/connection"
)

// BroadcastCommand returns the broadcast command.
func BroadcastCommand() *cli.Command {
	return &cli.Command{
		Name:      "broadcast",
		Usage:     "Send a message to every active session",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"x"},
				Usage:   "Class to exclude (repeatable): public, reserved, private",
			},
		},
		Action: broadcastAction,
	}
}

func broadcastAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one message argument")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{
		"message": base64.StdEncoding.EncodeToString([]byte(c.Args().First())),
		"exclude": c.StringSlice("exclude"),
	}

	resp, err := newClient(c).Post(ctx, "/admin/v1/broadcast", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Recipients int `json:"recipients"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("delivered to %d session(s)\n", result.Recipients)
	return nil
}
