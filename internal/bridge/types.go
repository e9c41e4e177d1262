package bridge

import (
	"encoding/json"
	"strconv"
	"time"
)

// Message direction, assigned client-side.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// Message types the client routes on. The supervisor may emit other types;
// those land in the general activity log.
const (
	TypePendingRequest  = "pending_request"
	TypePendingResponse = "pending_response"
	TypeSessionInput    = "session_input"
	TypeDirTree         = "dir_tree"
	TypeGitStatus       = "git_status"
	TypeReset           = "reset"
)

// Tree node types.
const (
	NodeFile   = "file"
	NodeFolder = "folder"
	NodeError  = "error"
)

// Endpoint status strings.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Stamp is a wire timestamp kept verbatim. The supervisor emits ISO-8601
// strings on most paths and numeric epochs on a few, so it accepts either
// and preserves the original text, which also serves as the identity
// component for deduplication.
type Stamp string

func (s *Stamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) >= 2 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Stamp(v)
		return nil
	}
	*s = Stamp(b)
	return nil
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

var stampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Time parses the stamp for display. Callers fall back to arrival order when
// it reports false.
func (s Stamp) Time() (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, string(s)); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(string(s), 64); err == nil {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec), true
	}
	return time.Time{}, false
}

// Now returns a Stamp for the current moment, used on locally echoed sends.
func Now() Stamp {
	return Stamp(time.Now().Format(time.RFC3339Nano))
}

// Message is the single wire shape for everything the supervisor pushes over
// the socket and returns from /history, and for local send echoes.
type Message struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Direction string          `json:"direction,omitempty"`
	TabID     *int            `json:"tabId,omitempty"`
	Timestamp Stamp           `json:"timestamp,omitempty"`
}

// Tab returns the tab id and whether one is present.
func (m Message) Tab() (int, bool) {
	if m.TabID == nil {
		return 0, false
	}
	return *m.TabID, true
}

/// Body returns the text component used for identity and display: the text
// field when set, otherwise the serialized data payload.
func (m Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return string(m.Data)
}

// TabRef builds a *int for outbound payloads.
func TabRef(id int) *int {
	return &id
}

// Outbound is the POST /send request body.
type Outbound struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	TabID *int   `json:"tabId,omitempty"`
}

// SendResult is the advisory /send response. Parse failures leave it zero.
type SendResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ResetResult is the /reset_db response.
type ResetResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TreeNode is one node of the workspace tree. Folders the supervisor has
// not descended into yet arrive without children; /tree fills them in.
type TreeNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path,omitempty"`
	Type     string     `json:"type"`
	Children []TreeNode `json:"children,omitempty"`
}

// TreeResult carries the tri-state /init_tree outcome: a populated forest,
// an explicitly empty workspace, or a server-reported error.
type TreeResult struct {
	Status  string
	Roots   []TreeNode
	Message string
}

// DecodeTreePayload decodes the data field of a dir_tree event. The
// supervisor sends either a single root or an array of roots.
func DecodeTreePayload(data json.RawMessage) ([]TreeNode, error) {
	var many []TreeNode
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one TreeNode
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []TreeNode{one}, nil
}

type historyResponse struct {
	Status   string    `json:"status"`
	Messages []Message `json:"messages"`
	Message  string    `json:"message"`
}

type initTreeResponse struct {
	Status  string     `json:"status"`
	Trees   []TreeNode `json:"trees"`
	Tree    *TreeNode  `json:"tree"`
	Message string     `json:"message"`
}

type subtreeResponse struct {
	Status  string    `json:"status"`
	Tree    *TreeNode `json:"tree"`
	Message string    `json:"message"`
}

type fileResponse struct {
	Status  string `json:"status"`
	Content string `json:"content"`
	Message string `json:"message"`
}
