// Package state holds the client-side view of the supervisor: conversation
// tabs, the general activity log, the workspace tree and the pending approval
// prompt. The store is owned by the root model and mutated only from the
// update loop, so none of it is locked.
package state

import (
	"log/slog"

	"github.com/wilbur182/trestle/internal/bridge"
)

// Prompt is the supervisor's outstanding approval request. At most one is
// tracked; a newer pending_request replaces it.
type Prompt struct {
	TabID int
	Text  string
}

// Route reports where Ingest put a message, so callers know what to refresh.
type Route int

const (
	RouteDuplicate Route = iota
	RouteDropped
	RouteTab
	RouteGeneral
	RouteTree
)

type Store struct {
	Tabs      TabSet
	General   []bridge.Message
	Tree      Tree
	Pending   *Prompt
	Connected bool

	seen   map[uint64]struct{}
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	return &Store{
		seen:   make(map[uint64]struct{}),
		logger: logger,
	}
}

// Ingest admits one inbound message. Each distinct key is admitted exactly
// once regardless of source, so the history fetch, the cache replay and the
// live socket can race freely. Tab-scoped types without a tab id are
// malformed and dropped.
func (s *Store) Ingest(m bridge.Message) Route {
	key := Key(m)
	if _, ok := s.seen[key]; ok {
		return RouteDuplicate
	}
	s.seen[key] = struct{}{}

	if m.Direction == "" {
		m.Direction = bridge.DirectionReceived
	}

	switch m.Type {
	case bridge.TypeDirTree:
		roots, err := bridge.DecodeTreePayload(m.Data)
		if err != nil {
			s.logger.Warn("dropping dir_tree with undecodable payload", "error", err)
			return RouteDropped
		}
		s.Tree.SetForest(roots)
		return RouteTree

	case bridge.TypePendingRequest, bridge.TypeSessionInput, bridge.TypePendingResponse:
		id, ok := m.Tab()
		if !ok {
			s.logger.Warn("dropping tab-scoped message without tabId", "type", m.Type)
			return RouteDropped
		}
		s.Tabs.Append(id, m)
		if m.Type == bridge.TypePendingRequest {
			s.Pending = &Prompt{TabID: id, Text: m.Body()}
		}
		return RouteTab

	default:
		s.General = append(s.General, m)
		return RouteGeneral
	}
}

// RecordSent mirrors a user send into local state immediately, independent of
// any server acknowledgement. Echoes are local by construction and skip the
// dedup set.
func (s *Store) RecordSent(m bridge.Message) Route {
	m.Direction = bridge.DirectionSent
	if m.Timestamp == "" {
		m.Timestamp = bridge.Now()
	}
	if id, ok := m.Tab(); ok {
		s.Tabs.Append(id, m)
		return RouteTab
	}
	s.General = append(s.General, m)
	return RouteGeneral
}

// ClearPending drops the prompt. Used both for explicit dismissal and for the
// optimistic clear before a reply round-trips.
func (s *Store) ClearPending() {
	s.Pending = nil
}

func (s *Store) SetConnected(up bool) {
	s.Connected = up
}
