// Package dispatch implements the opcode-indexed command executor table
// (§4.2, §4.3) plus the wire framing (ParseCommand) and response
// remapping (remap_error_code) that sit either side of it.
package dispatch

import (
	"context"
	"encoding/binary"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/cookie"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/logging"
	"github.com/couchbase/mcbpcore/transport"
)

var log = logging.Get("dispatch")

// Executor handles one opcode. It reads its request out of ck and either
// fills ck.Response, or calls ck.SetAsync() having parked on the engine
// (the caller resumes here on NotifyIOComplete).
type Executor func(ctx context.Context, c *conn.Connection, ck *cookie.Cookie)

// Table is the 256-wide opcode dispatch table (§4.2 "opcode-indexed
// executor table"). A nil entry falls back to execUnknown.
type Table struct {
	executors [256]Executor
}

// NewTable builds the default table wiring every opcode this server
// understands (§1 scope) to its executor.
func NewTable() *Table {
	t := &Table{}
	set := func(op transport.CommandCode, fn Executor) { t.executors[op] = fn }

	set(transport.GET, execGet)
	set(transport.GETQ, execGet)
	set(transport.SET, execStore(storeSet))
	set(transport.SETQ, execStore(storeSet))
	set(transport.ADD, execStore(storeAdd))
	set(transport.ADDQ, execStore(storeAdd))
	set(transport.REPLACE, execStore(storeReplace))
	set(transport.REPLACEQ, execStore(storeReplace))
	set(transport.DELETE, execDelete)
	set(transport.DELETEQ, execDelete)
	set(transport.APPEND, execStore(storeAppend))
	set(transport.APPENDQ, execStore(storeAppend))
	set(transport.PREPEND, execStore(storePrepend))
	set(transport.PREPENDQ, execStore(storePrepend))
	set(transport.INCREMENT, execArith(true))
	set(transport.INCREMENTQ, execArith(true))
	set(transport.DECREMENT, execArith(false))
	set(transport.DECREMENTQ, execArith(false))
	set(transport.FLUSH, execFlush)
	set(transport.FLUSHQ, execFlush)
	set(transport.GET_LOCKED, execGetLocked)
	set(transport.UNLOCK_KEY, execUnlock)
	set(transport.HELLO, execHello)
	set(transport.SELECT_BUCKET, execSelectBucket)
	set(transport.STAT, execStat)
	set(transport.OBSERVE, execObserve)
	set(transport.QUIT, execQuit)
	set(transport.QUITQ, execQuit)
	set(transport.NOOP, execNoop)
	set(transport.VERSION, execVersion)

	set(transport.DCP_OPEN, execDcpOpen)
	set(transport.DCP_ADDSTREAM, execDcpAddStream)
	set(transport.DCP_CLOSESTREAM, execDcpCloseStream)
	set(transport.DCP_STREAMREQ, execDcpStreamReq)
	set(transport.DCP_FAILOVERLOG, execDcpFailoverLog)
	set(transport.DCP_NOOP, execDcpNoop)
	set(transport.DCP_BUFFERACK, execDcpBufferAck)
	set(transport.DCP_CONTROL, execDcpControl)

	return t
}

// Lookup returns the executor bound to opcode, or execUnknown.
func (t *Table) Lookup(opcode transport.CommandCode) Executor {
	if fn := t.executors[opcode]; fn != nil {
		return fn
	}
	return execUnknown
}

// Dispatcher implements statemachine.Dispatcher against a Table.
type Dispatcher struct {
	Table *Table
}

func New() *Dispatcher { return &Dispatcher{Table: NewTable()} }

// ParseCommand decodes the next full frame sitting in c.Read into c's
// current Cookie. It is called once to parse the header (returning false
// while fewer than 24 bytes are buffered) and again to parse the body
// once the header declares how many more bytes are needed (§6).
func (d *Dispatcher) ParseCommand(c *conn.Connection) (bool, error) {
	ck := c.CurrentCookie()
	if ck.Header == (transport.Header{}) {
		if c.Read.RSize() < transport.HeaderLen {
			return false, nil
		}
		h, err := transport.DecodeHeader(c.Read.RData()[:transport.HeaderLen])
		if err != nil {
			return false, err
		}
		if !h.Valid() {
			return false, transport.ErrBadMagic
		}
		ck.Header = h
		c.Read.Consumed(transport.HeaderLen)
	}
	if int(ck.Header.BodyLen) > c.Read.RSize() {
		return false, nil
	}
	body := make([]byte, ck.Header.BodyLen)
	copy(body, c.Read.RData()[:ck.Header.BodyLen])
	c.Read.Consumed(int(ck.Header.BodyLen))
	ck.Body = body
	return true, nil
}

// Execute runs the opcode bound to the Cookie's parsed header, handling
// the EWOULDBLOCK park/resume contract and building the response frame
// once a concrete status is available (§4.3).
func (d *Dispatcher) Execute(ctx context.Context, c *conn.Connection) {
	ck := c.CurrentCookie()

	if status, woken := ck.ConsumeWoken(); woken {
		finishAsync(c, ck, status)
		return
	}

	fn := d.Table.Lookup(ck.Header.Opcode)
	fn(ctx, c, ck)

	if ck.IsAsync() {
		return
	}
	queueResponse(c, ck)
}

func finishAsync(c *conn.Connection, ck *cookie.Cookie, status engine.Status) {
	writeStatusOnly(c, ck, status)
	queueResponse(c, ck)
}

func queueResponse(c *conn.Connection, ck *cookie.Cookie) {
	if ck.Response == nil {
		return
	}
	if ck.Header.Opcode.IsQuiet() && statusOf(ck.Response) == transport.SUCCESS {
		// Quiet commands suppress a success response entirely (§6).
		ck.Response = nil
		return
	}
	c.AddIov(ck.Response, false)
}

func statusOf(resp []byte) transport.Status {
	if len(resp) < int(transport.HeaderLen) {
		return transport.EINTERNAL
	}
	return transport.Status(binary.BigEndian.Uint16(resp[6:8]))
}

// writeStatusOnly builds a response carrying only the remapped status,
// no body — used by finishAsync to answer a resumed, parked command.
func writeStatusOnly(c *conn.Connection, ck *cookie.Cookie, st engine.Status) {
	buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
}

// buildResponse renders a response frame for ck's request, remapping st
// through the connection's negotiated features (§4.3 "remap_error_code")
// and attaching the §6 JSON error envelope when xerror is enabled and the
// Cookie carries a context. A Disconnect-class status (§7 "Disconnect",
// SPEC_FULL.md §C.4) never reaches the wire: the connection is forced
// closed with whatever is already queued and no response for this
// command, rather than remapped to EINTERNAL.
func buildResponse(c *conn.Connection, ck *cookie.Cookie, st engine.Status, extras, value []byte, dt transport.Datatype) {
	if isDisconnectStatus(st) {
		ck.Response = nil
		c.WriteAndGo = conn.StateClosing
		return
	}

	wireStatus := remapErrorCode(st, c.Features)

	var body []byte
	if wireStatus != transport.SUCCESS {
		if errJSON := ck.ErrorJSON(); errJSON != nil && c.Features.Has(transport.FeatureXerror) {
			value = errJSON
			dt = transport.DatatypeJSON
			extras = nil
		} else {
			value = nil
			extras = nil
		}
	}
	body = append(append([]byte{}, extras...), value...)

	h := transport.Header{
		Magic:           transport.ResMagic,
		Opcode:          ck.Header.Opcode,
		KeyLen:          0,
		ExtrasLen:       uint8(len(extras)),
		Datatype:        dt.Sanitize(c.Features),
		StatusOrVBucket: uint16(wireStatus),
		BodyLen:         uint32(len(body)),
		Opaque:          ck.Header.Opaque,
		CAS:             ck.Cas,
	}
	buf := make([]byte, transport.HeaderLen+len(body))
	h.Encode(buf)
	copy(buf[transport.HeaderLen:], body)
	ck.Response = buf
}

func execUnknown(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng := c.CurrentEngine()
	if eng == nil {
		buildResponse(c, ck, engine.NotSupported, nil, nil, transport.DatatypeRaw)
		return
	}
	out, st := eng.UnknownCommand(ctx, ck, uint8(ck.Header.Opcode), ck.Key(), ck.Extras(), ck.Value())
	buildResponse(c, ck, st, nil, out, transport.DatatypeRaw)
}

func execQuit(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
	c.WriteAndGo = conn.StateClosing
}

func execNoop(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

func execVersion(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	buildResponse(c, ck, engine.Success, nil, []byte("mcbpcore"), transport.DatatypeRaw)
}
