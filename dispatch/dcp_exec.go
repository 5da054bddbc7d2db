package dispatch

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/cookie"
	"github.com/couchbase/mcbpcore/dcp"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

// dcpState is the per-connection bookkeeping ship_log needs once a
// connection has opened a DCP session: its ack tracker plus one seqno
// validator per actively streamed vbucket. Kept in the package-level
// dcpStates map keyed by connection, created on first use by DCP_OPEN,
// DCP_CONTROL or stateFor (§3 "DCP feature flags").
type dcpState struct {
	acker     *dcp.AckTracker
	seqStates map[uint16]*dcp.SeqOrderState
}

// dcpStates holds one dcpState per DCP-active connection, keyed by
// pointer. A single Dispatcher is shared across every worker goroutine
// (§4.2), so the map itself needs its own lock even though each entry's
// contents are only ever touched from that connection's own worker
// (the state machine's single-writer contract, §4.1).
var dcpStates = struct {
	mu sync.Mutex
	m  map[*conn.Connection]*dcpState
}{m: make(map[*conn.Connection]*dcpState)}

func stateFor(c *conn.Connection) *dcpState {
	dcpStates.mu.Lock()
	defer dcpStates.mu.Unlock()
	st, ok := dcpStates.m[c]
	if !ok {
		st = &dcpState{seqStates: make(map[uint16]*dcp.SeqOrderState)}
		dcpStates.m[c] = st
	}
	return st
}

func execDcpOpen(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	if len(ck.Extras()) < 8 {
		buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
		return
	}
	seq := binary.BigEndian.Uint32(ck.Extras()[0:4])
	flags := binary.BigEndian.Uint32(ck.Extras()[4:8])
	const dcpFlagConsumer = 0x02
	consumer := flags&dcpFlagConsumer != 0

	st := eng.Dcp().Open(ctx, ck, string(ck.Key()), seq, consumer)
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	c.IsDCP = !consumer
	c.DCPFeatures.CollectionAware = flags&0x08 != 0 // FLAG_COLLECTIONS, §6
	dcpStates.mu.Lock()
	dcpStates.m[c] = &dcpState{
		acker:     dcp.NewAckTracker(0, 0.2), // sized on first DCP_CONTROL connection_buffer_size
		seqStates: make(map[uint16]*dcp.SeqOrderState),
	}
	dcpStates.mu.Unlock()
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

func execDcpAddStream(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

func execDcpCloseStream(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	st := eng.Dcp().CloseStream(ctx, ck, ck.Header.VBucket())
	delete(stateFor(c).seqStates, ck.Header.VBucket())
	buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
}

func execDcpStreamReq(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	ext := ck.Extras()
	if len(ext) < 48 {
		buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
		return
	}
	flags := binary.BigEndian.Uint32(ext[0:4])
	vbuuid := binary.BigEndian.Uint64(ext[8:16])
	startSeq := binary.BigEndian.Uint64(ext[16:24])
	endSeq := binary.BigEndian.Uint64(ext[24:32])
	snapStart := binary.BigEndian.Uint64(ext[32:40])
	snapEnd := binary.BigEndian.Uint64(ext[40:48])

	vb := ck.Header.VBucket()
	st := eng.Dcp().RequestStream(ctx, ck, vb, flags, vbuuid, startSeq, endSeq, snapStart, snapEnd)
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	ss := dcp.NewSeqOrderState()
	ss.ProcessSnapshot(snapStart, snapEnd)
	stateFor(c).seqStates[vb] = ss
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

func execDcpFailoverLog(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	entries, st := eng.Dcp().GetFailoverLog(ctx, ck, ck.Header.VBucket())
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	value := make([]byte, 0, len(entries)*16)
	for _, e := range entries {
		var b [16]byte
		binary.BigEndian.PutUint64(b[0:8], e.VBucketUUID)
		binary.BigEndian.PutUint64(b[8:16], e.SeqNo)
		value = append(value, b[:]...)
	}
	buildResponse(c, ck, engine.Success, nil, value, transport.DatatypeRaw)
}

// execDcpNoop answers the peer's own keepalive (§6 DCP_NOOP). This core
// sends no periodic NOOPs of its own.
func execDcpNoop(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

func execDcpBufferAck(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	ext := ck.Extras()
	if len(ext) < 4 {
		buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
		return
	}
	n := binary.BigEndian.Uint32(ext[0:4])
	st := stateFor(c)
	if st.acker == nil {
		buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
		return
	}
	if err := st.acker.Consume(n); err != nil {
		log.Warnf("dcp: %s sent bufferack overflow: %v", c.PeerName, err)
		buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
		return
	}
	// DCP_BUFFERACK is always sent quiet by well-behaved clients; no
	// response body either way.
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

// execDcpControl negotiates named key/value control settings (§6); the
// only one the core core itself interprets is connection_buffer_size,
// which resizes the connection's AckTracker.
func execDcpControl(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	key := string(ck.Key())
	value := string(ck.Value())
	if key == "connection_buffer_size" {
		var size int
		for _, r := range value {
			if r < '0' || r > '9' {
				buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
				return
			}
			size = size*10 + int(r-'0')
		}
		stateFor(c).acker = dcp.NewAckTracker(size, 0.2)
	}
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

// CleanupDCPState drops the package-level bookkeeping a destroyed DCP
// connection held. The worker must call this from StateDestroyed/closing
// teardown, or dcpStates leaks one entry per connection that ever opened
// a DCP session.
func CleanupDCPState(c *conn.Connection) {
	dcpStates.mu.Lock()
	delete(dcpStates.m, c)
	dcpStates.mu.Unlock()
}
