// Package command provides CLI command definitions for pollrelay-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pollrelay-go/internal/cli/connection"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server status summary",
		Action: statusAction,
	}
}

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check server health",
		Action: healthAction,
	}
}

func statusAction(c *cli.Context) error {
	// The local socket needs no credentials; prefer it when given.
	if socket := c.String("socket"); socket != "" {
		return socketStatus(socket)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := newClient(c).Get(ctx, "/admin/v1/status")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var status struct {
		Version         string `json:"version"`
		ActiveSessions  int    `json:"active_sessions"`
		PendingMessages int    `json:"pending_messages"`
		TimeoutMS       int64  `json:"timeout_ms"`
		UptimeSeconds   int64  `json:"uptime_seconds"`
	}
	if err := connection.ParseResponse(resp, &status); err != nil {
		return err
	}

	f, err := formatter(c)
	if err != nil {
		return err
	}
	return f.Format(os.Stdout, status)
}

func socketStatus(path string) error {
	client := connection.NewSocketClient(path)
	defer client.Close()

	resp, err := client.Execute("status")
	if err != nil {
		return fmt.Errorf("socket request failed: %w", err)
	}

	fmt.Print(resp)
	return nil
}

func healthAction(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := newClient(c).Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var health struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := connection.ParseResponse(resp, &health); err != nil {
		return err
	}

	fmt.Printf("server is %s (%s)\n", health.Status, health.Time)
	return nil
}
