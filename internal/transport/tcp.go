package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/mroshb/quizline/internal/middleware"
	"github.com/mroshb/quizline/pkg/logger"
)

// TCPServer serves the line protocol, one goroutine per connection.
type TCPServer struct {
	Addr    string
	Handler Handler
	Limiter *middleware.RateLimiter

	mu      sync.Mutex
	clients map[*Client]struct{}
	wg      sync.WaitGroup
}

func (s *TCPServer) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes
// every open client and waits for their handlers to return.
func (s *TCPServer) Serve(ctx context.Context, ln net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		ln.Close()
	}()

	logger.Info("TCP server listening", "addr", ln.Addr().String())

	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && isTemporary(err) {
				tempDelay = nextDelay(tempDelay)
				logger.Warn("Accept failed, retrying", "addr", ln.Addr().String(), "delay", tempDelay, "error", err)
				select {
				case <-time.After(tempDelay):
				case <-ctx.Done():
				}
				continue
			}
			s.closeAll()
			s.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				logger.Info("TCP server stopped", "addr", ln.Addr().String())
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		tempDelay = 0

		remote := conn.RemoteAddr().String()
		if s.Limiter != nil {
			ip := hostOf(remote)
			if err := s.Limiter.Allow(ip); err != nil {
				logger.Warn("Connection rejected by rate limiter", "remote", remote, "error", err)
				fmt.Fprintln(conn, "Demasiadas conexiones, inténtelo más tarde.")
				conn.Close()
				continue
			}
			logger.Debug("Connection admitted", "remote", remote, "connections_left", s.Limiter.GetIPRemaining(ip))
		}

		c := NewStreamClient(conn, conn, conn.Close, remote, false, true)
		s.track(c)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			defer c.Close()

			logger.Info("Client connected", "client_id", c.ID, "remote", remote)
			s.Handler.Serve(ctx, c)
			logger.Info("Client disconnected", "client_id", c.ID, "remote", remote)
		}()
	}
}

func (s *TCPServer) track(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients == nil {
		s.clients = make(map[*Client]struct{})
	}
	s.clients[c] = struct{}{}
}

func (s *TCPServer) untrack(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}

func (s *TCPServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
}

// isTemporary reports whether an accept error is worth retrying, such as
// running out of file descriptors.
func isTemporary(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}

// nextDelay doubles the accept backoff from 5ms up to one second.
func nextDelay(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		return time.Second
	}
	return d
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
