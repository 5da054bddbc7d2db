package dispatch

import (
	"context"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/dcp"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

// dcpSink adapts a Connection's send path to engine.DcpSink: each
// Mutation/StreamEnd callback from DcpProducer.Step builds one wire frame
// and appends it to the connection's message queue (§4.1 "ship_log").
type dcpSink struct {
	c      *conn.Connection
	st     *dcpState
	paused bool
}

func (s *dcpSink) Mutation(m engine.DcpMutation) {
	if s.st.acker != nil && s.st.acker.ShouldPause() {
		s.paused = true
	}
	ss := s.st.seqStates[m.VBucket]
	if ss != nil && !ss.ProcessSeqno(m.BySeqno) {
		log.Errorf("dcp: seqno order violation on vb %d: %s", m.VBucket, ss.GetInfo())
	}

	wireKey, err := dcp.EncodeKey(m.Key, m.CollectionID, m.CollectionAware)
	if err != nil {
		log.Errorf("dcp: %v", err)
		return
	}

	isMutation := transport.CommandCode(m.Opcode) == transport.DCP_MUTATION
	extras := dcp.MutationExtras(m.BySeqno, m.RevSeqno, m.Flags, m.Expiration, 0, isMutation)

	h := transport.Header{
		Magic:     transport.ReqMagic,
		Opcode:    transport.CommandCode(m.Opcode),
		KeyLen:    uint16(len(wireKey)),
		ExtrasLen: uint8(len(extras)),
		Datatype:  transport.Datatype(m.Datatype),
		BodyLen:   uint32(len(extras) + len(wireKey) + len(m.Value)),
		CAS:       m.Cas,
	}
	h.StatusOrVBucket = m.VBucket

	buf := make([]byte, transport.HeaderLen+len(extras)+len(wireKey)+len(m.Value))
	h.Encode(buf)
	n := transport.HeaderLen
	n += copy(buf[n:], extras)
	n += copy(buf[n:], wireKey)
	copy(buf[n:], m.Value)

	s.c.AddIov(buf, false)
	if s.st.acker != nil {
		s.st.acker.RecordSent(len(buf))
	}
}

func (s *dcpSink) StreamEnd(vbucket uint16, flags uint32) {
	delete(s.st.seqStates, vbucket)

	extras := make([]byte, 4)
	extras[0] = byte(flags >> 24)
	extras[1] = byte(flags >> 16)
	extras[2] = byte(flags >> 8)
	extras[3] = byte(flags)

	h := transport.Header{
		Magic:           transport.ReqMagic,
		Opcode:          transport.DCP_STREAMEND,
		ExtrasLen:       uint8(len(extras)),
		StatusOrVBucket: vbucket,
		BodyLen:         uint32(len(extras)),
	}
	buf := make([]byte, transport.HeaderLen+len(extras))
	h.Encode(buf)
	copy(buf[transport.HeaderLen:], extras)
	s.c.AddIov(buf, false)
}

// StepDCP drives one ship_log iteration: ask the engine's DcpProducer for
// its next batch, frame whatever it hands back, and report whether more
// work is immediately available (so the caller keeps looping within its
// event budget rather than registering for writability and returning,
// §4.1 "DCP specifics").
func (d *Dispatcher) StepDCP(ctx context.Context, c *conn.Connection) bool {
	eng := c.CurrentEngine()
	if eng == nil {
		return false
	}
	ck := c.CurrentCookie()
	sink := &dcpSink{c: c, st: stateFor(c)}
	st := eng.Dcp().Step(ctx, ck, sink)
	switch st {
	case engine.EWouldBlock:
		return false
	case engine.Success:
		return !sink.paused
	default:
		log.Warnf("dcp: %s producer Step failed: %v", c.PeerName, st)
		c.State = conn.StateClosing
		return false
	}
}
