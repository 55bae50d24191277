// Package command provides CLI command definitions for pollrelay-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pollrelay-go/internal/cli/connection"
	"github.com/yndnr/pollrelay-go/internal/cli/output"
)

// SessionsCommand returns the sessions command.
func SessionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "sessions",
		Aliases: []string{"ls"},
		Usage:   "List active sessions",
		Action:  sessionsAction,
	}
}

func sessionsAction(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newClient(c).Get(ctx, "/admin/v1/sessions")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var list struct {
		Sessions []struct {
			ID        string    `json:"id"`
			Class     string    `json:"class"`
			CreatedAt time.Time `json:"created_at"`
			Deadline  time.Time `json:"deadline"`
			Pending   int       `json:"pending"`
		} `json:"sessions"`
		Total int `json:"total"`
	}
	if err := connection.ParseResponse(resp, &list); err != nil {
		return err
	}

	f, err := formatter(c)
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return f.Format(os.Stdout, list)
	}

	table := output.NewTable("ID", "CLASS", "PENDING", "DEADLINE")
	for _, s := range list.Sessions {
		table.AddRow(
			s.ID,
			s.Class,
			strconv.Itoa(s.Pending),
			s.Deadline.Local().Format(time.RFC3339),
		)
	}
	return f.Format(os.Stdout, table)
}
