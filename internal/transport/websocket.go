package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/mroshb/quizline/internal/middleware"
	"github.com/mroshb/quizline/pkg/logger"
)

const (
	writeWait = 10 * time.Second
	timeout   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSServer serves the same command loop over WebSocket. Every text
// message the client sends is one input line.
type WSServer struct {
	Addr    string
	Handler Handler
	Limiter *middleware.RateLimiter

	// ActiveSessions feeds the health endpoint; optional.
	ActiveSessions func() int
}

// NewWSClient wraps an upgraded connection.
func NewWSClient(conn *websocket.Conn, remote string) *Client {
	var pending []string
	read := func() (string, error) {
		for len(pending) == 0 {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return "", err
			}
			if mt != websocket.TextMessage {
				continue
			}
			pending = strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
		}
		line := strings.TrimRight(pending[0], "\r")
		pending = pending[1:]
		if len(line) > MaxLineLength {
			return "", ErrLineTooLong
		}
		return line, nil
	}
	write := func(p []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, p)
	}
	closeFn := func() error {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		return conn.Close()
	}
	return newClient(remote, false, false, read, write, closeFn)
}

// Router builds the HTTP routes. Sessions started through it live until
// ctx is cancelled or the client goes away.
func (s *WSServer) Router(ctx context.Context) *httprouter.Router {
	mux := httprouter.New()
	mux.GET("/healthz", s.serveHealthCheck())
	mux.GET("/ws", s.serveWS(ctx))
	return mux
}

func (s *WSServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router(ctx),
		ReadHeaderTimeout: timeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("WebSocket server listening", "addr", s.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("websocket server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("WebSocket server stopped", "addr", s.Addr)
	return nil
}

func (s *WSServer) serveHealthCheck() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		body := map[string]any{"status": "ok"}
		if s.ActiveSessions != nil {
			body["active_sessions"] = s.ActiveSessions()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Warn("Failed to write health check", "error", err)
		}
	}
}

func (s *WSServer) serveWS(ctx context.Context) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		remote := r.RemoteAddr
		if s.Limiter != nil {
			ip := hostOf(remote)
			if err := s.Limiter.Allow(ip); err != nil {
				logger.Warn("Connection rejected by rate limiter", "remote", remote, "transport", "websocket", "error", err)
				http.Error(w, "too many connections", http.StatusTooManyRequests)
				return
			}
			logger.Debug("Connection admitted", "remote", remote, "connections_left", s.Limiter.GetIPRemaining(ip))
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("WebSocket upgrade failed", "remote", remote, "error", err)
			return
		}

		c := NewWSClient(conn, remote)
		defer c.Close()

		logger.Info("Client connected", "client_id", c.ID, "remote", remote, "transport", "websocket")
		s.Handler.Serve(ctx, c)
		logger.Info("Client disconnected", "client_id", c.ID, "remote", remote, "transport", "websocket")
	}
}
