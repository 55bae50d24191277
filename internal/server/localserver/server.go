// Package localserver provides the local management server.
//
// It listens on a Unix Domain Socket, providing local management
// access without relay credentials. The protocol is line-based: one
// command per line, one JSON document per response line.
package localserver

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
)

// Server represents the local management server.
type Server struct {
	handler  *Handler
	log      logger.Logger
	listener net.Listener
	path     string
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates a new local server.
func New(socketPath string, handler *Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		handler: handler,
		log:     log,
		path:    socketPath,
	}
}

// ListenAndServe starts the local server.
func (s *Server) ListenAndServe() error {
	// A previous unclean shutdown can leave the socket file behind.
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	var err error
	s.listener, err = net.Listen("unix", s.path)
	if err != nil {
		return err
	}

	s.running.Store(true)
	s.log.Info("local server listening", "path", s.path)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// Shutdown gracefully shuts down the server: it stops accepting new
// connections, then waits for in-flight connections to finish or the
// context to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var closeErr error
	if s.listener != nil {
		closeErr = s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		_ = os.Remove(s.path)
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if err := s.handler.Execute(conn, fields[0], fields[1:]); err != nil {
			s.log.Warn("local command failed", "command", fields[0], "error", err)
			return
		}
		if fields[0] == "quit" {
			return
		}
	}
}
