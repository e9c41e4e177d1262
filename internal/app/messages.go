package app

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/history"
)

// TickMsg drives the clock and toast expiry.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// socketConnectedMsg reports a successful dial; the model takes ownership of
// the socket and starts draining it.
type socketConnectedMsg struct {
	socket *bridge.Socket
}

// socketFailedMsg reports a failed dial. There is no retry: the run stays
// disconnected and the HTTP side keeps working.
type socketFailedMsg struct {
	err error
}

// frameMsg is one item pumped off the socket stream. ok is false once the
// channel has closed behind the terminal error.
type frameMsg struct {
	frame bridge.Frame
	ok    bool
}

func connectSocket(baseURL string, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		socket, err := bridge.DialSocket(ctx, baseURL, logger)
		if err != nil {
			return socketFailedMsg{err: err}
		}
		return socketConnectedMsg{socket: socket}
	}
}

// waitFrame blocks on the next inbound frame. The model re-issues it after
// every frameMsg, so exactly one receive is outstanding at a time.
func waitFrame(s *bridge.Socket) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-s.Frames()
		return frameMsg{frame: f, ok: ok}
	}
}

// historyLoadedMsg carries the /history fetch. The messages run through the
// same dedup gate as live frames, so overlap with the cache replay is fine.
type historyLoadedMsg struct {
	messages []bridge.Message
	err      error
}

func loadHistory(client *bridge.Client, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msgs, err := client.History(ctx, limit)
		return historyLoadedMsg{messages: msgs, err: err}
	}
}

// cacheLoadedMsg carries the local replay. A cache error disables the cache
// for the rest of the run.
type cacheLoadedMsg struct {
	messages []bridge.Message
	err      error
}

func loadCache(cache *history.Cache, limit int) tea.Cmd {
	return func() tea.Msg {
		msgs, err := cache.Recent(limit)
		return cacheLoadedMsg{messages: msgs, err: err}
	}
}

// resetDBDoneMsg carries the /reset_db outcome, shown as an alert either way.
type resetDBDoneMsg struct {
	result bridge.ResetResult
	err    error
}

func resetDB(client *bridge.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := client.ResetDB(ctx)
		return resetDBDoneMsg{result: result, err: err}
	}
}

// resetLLMDoneMsg carries the advisory /send response for a reset action.
type resetLLMDoneMsg struct {
	result bridge.SendResult
	err    error
}

func resetLLM(client *bridge.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := client.Send(ctx, bridge.Outbound{Type: bridge.TypeReset, Text: ""})
		return resetLLMDoneMsg{result: result, err: err}
	}
}

// appCommandMsg is emitted by keymap handlers for app-level commands; the
// update loop acts on the id.
type appCommandMsg struct {
	id string
}

func appCommand(id string) tea.Cmd {
	return func() tea.Msg {
		return appCommandMsg{id: id}
	}
}
