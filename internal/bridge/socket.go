package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame is one item from the socket stream: a decoded inbound message, or,
// as the final item before the channel closes, the terminal read error.
type Frame struct {
	Message Message
	Err     error
}

// Socket is the one-per-run WebSocket to /ws/client. It is read-only: the
// supervisor never expects frames from the client, and there is no
// reconnect — a closed socket leaves the run disconnected.
type Socket struct {
	conn      *websocket.Conn
	frames    chan Frame
	logger    *slog.Logger
	closeOnce sync.Once
}

// WebSocketURL derives the /ws/client endpoint from the HTTP origin.
func WebSocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("bridge: parse base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("bridge: unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws/client"
	u.RawQuery = ""
	return u.String(), nil
}

// DialSocket connects to the supervisor's event socket and starts the read
// loop. Malformed frames are logged and dropped without affecting the
// connection.
func DialSocket(ctx context.Context, baseURL string, logger *slog.Logger) (*Socket, error) {
	wsURL, err := WebSocketURL(baseURL)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge: dial %s: status %d: %w", wsURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("bridge: dial %s: %w", wsURL, err)
	}

	s := &Socket{
		conn:   conn,
		frames: make(chan Frame, 16),
		logger: logger,
	}
	go s.readLoop()
	return s, nil
}

// Frames returns the inbound stream. The channel closes after the terminal
// error frame.
func (s *Socket) Frames() <-chan Frame {
	return s.frames
}

// Close tears the socket down. The read loop exits and closes the frame
// channel on its own.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

func (s *Socket) readLoop() {
	defer close(s.frames)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.frames <- Frame{Err: err}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("dropping malformed frame", "err", err, "bytes", len(data))
			continue
		}
		if msg.Direction == "" {
			msg.Direction = DirectionReceived
		}
		s.frames <- Frame{Message: msg}
	}
}
