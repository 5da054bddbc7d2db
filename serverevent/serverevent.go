// Package serverevent implements the out-of-band event types a
// connection drains between commands (§4.5): cluster-map change
// notifications and forced disconnects originating outside the
// connection's own command stream.
package serverevent

import (
	"encoding/binary"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/transport"
)

// ClustermapChange pushes a CCCP (FeatureClustermapChangeNotification)
// notification frame the next time the connection is idle between
// commands, carrying the new config revision. It never interrupts a
// command already in flight (§4.5 "queued, not interrupting").
type ClustermapChange struct {
	Revision uint64
	Payload  []byte // opaque cluster map JSON
}

func (e *ClustermapChange) Apply(c *conn.Connection) bool {
	if !c.Features.Has(transport.FeatureClustermapChangeNotification) {
		return false
	}
	extras := make([]byte, 8)
	binary.BigEndian.PutUint64(extras, e.Revision)
	h := transport.Header{
		Magic:     transport.ReqMagic,
		Opcode:    transport.CommandCode(0x01), // SET used for CCCP push per §6 convention: body is the map
		ExtrasLen: uint8(len(extras)),
		BodyLen:   uint32(len(extras) + len(e.Payload)),
	}
	buf := make([]byte, transport.HeaderLen+len(extras)+len(e.Payload))
	h.Encode(buf)
	n := transport.HeaderLen
	n += copy(buf[n:], extras)
	copy(buf[n:], e.Payload)
	c.AddIov(buf, false)
	return true
}

// Disconnect forces a connection closed regardless of its current state,
// e.g. because its selected bucket was deleted or the server is
// shutting down (§4.5, SPEC_FULL.md §C.2 "ON_DISCONNECT ordering": this
// must run and flip the connection to Closing before any other queued
// event on the same drain gets a chance to touch it again).
type Disconnect struct {
	Reason string
}

func (e *Disconnect) Apply(c *conn.Connection) bool {
	c.State = conn.StateClosing
	return true
}
