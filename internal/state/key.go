package state

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/wilbur182/trestle/internal/bridge"
)

// Key derives the dedup identity of a message: timestamp, type, body and tab
// id hashed together. History replay and live frames that describe the same
// event hash to the same key.
func Key(m bridge.Message) uint64 {
	h := xxhash.New()
	h.WriteString(string(m.Timestamp))
	h.Write([]byte{0})
	h.WriteString(m.Type)
	h.Write([]byte{0})
	h.WriteString(m.Body())
	h.Write([]byte{0})
	if id, ok := m.Tab(); ok {
		h.WriteString(strconv.Itoa(id))
	}
	return h.Sum64()
}
