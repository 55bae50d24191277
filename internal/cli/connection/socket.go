// Package connection provides server connections for pollrelay-cli.
package connection

import (
	"bufio"
	"net"
)

// SocketClient provides Unix socket communication for local management.
type SocketClient struct {
	path string
	conn net.Conn
}

// NewSocketClient creates a new socket client.
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{path: socketPath}
}

// Connect connects to the local socket.
func (c *SocketClient) Connect() error {
	var err error
	c.conn, err = net.Dial("unix", c.path)
	return err
}

// Close closes the socket connection.
func (c *SocketClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Execute sends a command line and returns the JSON response line.
func (c *SocketClient) Execute(cmd string) (string, error) {
	if c.conn == nil {
		if err := c.Connect(); err != nil {
			return "", err
		}
	}

	if _, err := c.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", err
	}

	response, err := bufio.NewReader(c.conn).ReadString('\n')
	if err != nil {
		return "", err
	}
	return response, nil
}
