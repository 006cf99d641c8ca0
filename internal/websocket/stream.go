// Package websocket streams alert reports to browser clients.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"oilrisk/internal/middleware"
	api "oilrisk/pkg/contracts/api/v1"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// DoneFrame is the text frame that ends a report stream
	DoneFrame = "[DONE]"
)

// Connection is the subset of *websocket.Conn used by Stream
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	Close() error
}

// NewUpgrader returns an upgrader accepting requests without an Origin header
// and origins in allowed. An empty allow list accepts every origin.
func NewUpgrader(allowed []string, logger *slog.Logger) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || middleware.OriginAllowed(allowed, origin) {
				return true
			}
			logger.WarnContext(r.Context(), "websocket origin not allowed",
				slog.String("origin", origin),
				slog.Any("allowed_origins", allowed))
			return false
		},
	}
}

// Stream writes report tokens to one client
type Stream struct {
	conn   Connection
	logger *slog.Logger
}

// NewStream wraps an upgraded connection
func NewStream(conn Connection, logger *slog.Logger) *Stream {
	conn.SetReadLimit(maxMessageSize)
	return &Stream{conn: conn, logger: logger}
}

// Watch returns a context cancelled once the client closes the connection.
// Client messages are discarded.
func (s *Stream) Watch(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.DebugContext(ctx, "websocket read failed", slog.String("error", err.Error()))
				}
				return
			}
		}
	}()
	return ctx
}

// Send writes one token frame
func (s *Stream) Send(token string) error {
	payload, err := json.Marshal(api.ReportToken{Token: token})
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return s.write(websocket.TextMessage, payload)
}

// Done writes the terminating frame and a normal close
func (s *Stream) Done() error {
	if err := s.write(websocket.TextMessage, []byte(DoneFrame)); err != nil {
		return err
	}
	return s.close(websocket.CloseNormalClosure, "")
}

// Fail closes the connection with an error status
func (s *Stream) Fail(code int, reason string) error {
	return s.close(code, reason)
}

// Close releases the underlying connection
func (s *Stream) Close() error {
	return s.conn.Close()
}

func (s *Stream) close(code int, reason string) error {
	return s.write(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}

func (s *Stream) write(messageType int, data []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := s.conn.WriteMessage(messageType, data); err != nil {
		return fmt.Errorf("failed to write websocket message: %w", err)
	}
	return nil
}
