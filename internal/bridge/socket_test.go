package bridge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWebSocketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "http", base: "http://localhost:9013", want: "ws://localhost:9013/ws/client"},
		{name: "https", base: "https://bridge.example.com", want: "wss://bridge.example.com/ws/client"},
		{name: "query stripped", base: "http://localhost:9013?token=x", want: "ws://localhost:9013/ws/client"},
		{name: "bad scheme", base: "ftp://localhost", wantErr: true},
		{name: "not a url", base: "://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WebSocketURL(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.base)
				}
				return
			}
			if err != nil {
				t.Fatalf("WebSocketURL(%q) returned error: %v", tt.base, err)
			}
			if got != tt.want {
				t.Fatalf("WebSocketURL(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestSocketDeliversFrames(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/client" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
		defer conn.Close()

		frames := []string{
			`{"type":"session_input","text":"hello","tabId":1,"timestamp":"2025-08-01T10:00:00"}`,
			`this is not json`,
			`{"type":"git_status","text":"Summarizing files...","timestamp":"2025-08-01T10:00:01"}`,
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				t.Fatalf("write frame: %v", err)
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	sock, err := DialSocket(context.Background(), server.URL, discardLogger())
	if err != nil {
		t.Fatalf("DialSocket returned error: %v", err)
	}
	defer sock.Close()

	var got []Message
	timeout := time.After(5 * time.Second)
	for {
		select {
		case frame, ok := <-sock.Frames():
			if !ok {
				t.Fatal("channel closed before terminal frame")
			}
			if frame.Err != nil {
				if len(got) != 2 {
					t.Fatalf("expected 2 messages before close, got %d", len(got))
				}
				if got[0].Text != "hello" || got[1].Text != "Summarizing files..." {
					t.Fatalf("unexpected messages: %+v", got)
				}
				if got[0].Direction != DirectionReceived {
					t.Fatalf("direction not defaulted: %q", got[0].Direction)
				}
				if id, ok := got[0].Tab(); !ok || id != 1 {
					t.Fatalf("tab not preserved: %v %v", id, ok)
				}
				return
			}
			got = append(got, frame.Message)
		case <-timeout:
			t.Fatal("timed out waiting for frames")
		}
	}
}

func TestSocketChannelClosesAfterError(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
		conn.Close()
	}))
	defer server.Close()

	sock, err := DialSocket(context.Background(), server.URL, discardLogger())
	if err != nil {
		t.Fatalf("DialSocket returned error: %v", err)
	}
	defer sock.Close()

	sawErr := false
	timeout := time.After(5 * time.Second)
	for {
		select {
		case frame, ok := <-sock.Frames():
			if !ok {
				if !sawErr {
					t.Fatal("channel closed without a terminal error frame")
				}
				return
			}
			if frame.Err != nil {
				sawErr = true
			}
		case <-timeout:
			t.Fatal("timed out waiting for channel close")
		}
	}
}

func TestDialSocketRefused(t *testing.T) {
	t.Parallel()

	// Port 1 is never listening.
	_, err := DialSocket(context.Background(), "http://127.0.0.1:1", discardLogger())
	if err == nil {
		t.Fatal("expected dial error")
	}
}
