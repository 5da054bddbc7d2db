// Package conn implements the Connection type: the owner of one socket,
// its Cookies, send-path buffers, and negotiated protocol state (§3).
package conn

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchbase/mcbpcore/bufferpool"
	"github.com/couchbase/mcbpcore/cookie"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/pipe"
	"github.com/couchbase/mcbpcore/transport"
)

// State is the connection's current position in the state machine
// (§4.1). Defined here (rather than in package statemachine) so
// Connection can hold its own state without an import cycle; package
// statemachine only reads and writes conn.Connection.State.
type State int

const (
	StateNewCmd State = iota
	StateWaiting
	StateReadPacketHeader
	StateParseCmd
	StateReadPacketBody
	StateExecute
	StateSendData
	StateShipLog
	StateClosing
	StatePendingClose
	StateImmediateClose
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateNewCmd:
		return "new_cmd"
	case StateWaiting:
		return "waiting"
	case StateReadPacketHeader:
		return "read_packet_header"
	case StateParseCmd:
		return "parse_cmd"
	case StateReadPacketBody:
		return "read_packet_body"
	case StateExecute:
		return "execute"
	case StateSendData:
		return "send_data"
	case StateShipLog:
		return "ship_log"
	case StateClosing:
		return "closing"
	case StatePendingClose:
		return "pending_close"
	case StateImmediateClose:
		return "immediate_close"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// WriteAndGo names the state transmit() moves to once every queued
// msghdr has been sent (§4.4).
type WriteAndGo = State

// EventRegistration is the subset of readiness a connection asks its
// worker to watch for (§4.1 "registered for readability").
type EventRegistration int

const (
	RegisterNone EventRegistration = iota
	RegisterRead
	RegisterWrite
	RegisterReadWrite
)

// ServerEvent is one out-of-band item drained between commands (§4.5).
type ServerEvent interface {
	// Apply mutates the connection (e.g. queues a cluster-map push
	// frame, or forces a disconnect) and reports whether it advanced the
	// state machine (so the current callback should loop immediately
	// instead of yielding).
	Apply(c *Connection) (advanced bool)
}

// Connection owns one socket and one peer (§3).
type Connection struct {
	mu sync.Mutex

	Socket   net.Conn
	PeerName string
	SockName string

	Registration EventRegistration

	// Identity/authorization.
	AuthenticatedUser string
	SASLInProgress    bool
	PrivilegeContext  interface{} // opaque snapshot, recreated (not mutated) per §5

	BucketIndex  int
	Engine       engine.Handle
	bucketMu     sync.RWMutex

	Features    transport.FeatureSet
	DCPFeatures DCPFeatureSet

	State State
	// WriteAndGo is the state transmit() will move to once the send
	// path drains (normally StateNewCmd; StateClosing after a fatal).
	WriteAndGo WriteAndGo

	Read  *pipe.Pipe
	Write *pipe.Pipe

	Cookies        []*cookie.Cookie
	unorderedNext  int // round-robin slot for UnorderedExecution (§5)
	discCookie     cookie.Cookie // scratch Cookie for DisconnectCookie when none reserved

	reservedItems []*engine.Item
	tempAlloc     [][]byte

	Msgs    []MsgHdr
	MsgCurr int

	// pendingMu guards bytes staged by the connection's dedicated read
	// pump goroutine (§4.2 "read pump") until the owning worker goroutine
	// ingests them into Read. Never held across a Pipe operation or a
	// blocking call.
	pendingMu   sync.Mutex
	pendingData []byte
	pendingErr  error

	refcount int32

	Worker WorkerHandle

	Events []ServerEvent

	CPU CPUAccounting

	// NumEvents bounds how many commands this connection may execute
	// before the reactor must yield to other connections (§4.1 "Command
	// yielding").
	NumEvents int

	AgentName      string
	ConnectionID   uint64
	LastCmdStart   time.Time
	IdleSince      time.Time

	IsDCP bool

	closeOnce sync.Once
}

// WorkerHandle is the narrow back-reference a Connection needs into its
// owning worker: re-registering for events and signalling pending-io
// without importing package worker (which owns Connection lifetimes and
// would otherwise create an import cycle).
type WorkerHandle interface {
	Register(c *Connection, reg EventRegistration)
	Unregister(c *Connection)
	NotifyPendingIO(c *Connection)
	BufferPool() *bufferpool.Pool
}

// DCPFeatureSet captures DCP-channel-specific negotiated flags (§3).
type DCPFeatureSet struct {
	XattrAware      bool
	CollectionAware bool
	DeleteWithTime  bool
	NoValue         bool
}

// New creates a Connection in its initial StateNewCmd state with refcount
// 1 (owned by its worker, §5).
func New(socket net.Conn, w WorkerHandle) *Connection {
	return &Connection{
		Socket:     socket,
		PeerName:   socket.RemoteAddr().String(),
		SockName:   socket.LocalAddr().String(),
		State:      StateNewCmd,
		WriteAndGo: StateNewCmd,
		Worker:     w,
		refcount:   1,
		Features:   make(transport.FeatureSet),
	}
}

// Ref increments the refcount; called whenever a Cookie is handed to the
// engine (§5 "Reference counting").
func (c *Connection) Ref() int32 { return atomic.AddInt32(&c.refcount, 1) }

// Unref decrements the refcount; called on the engine's completion
// notify.
func (c *Connection) Unref() int32 { return atomic.AddInt32(&c.refcount, -1) }

// Refcount returns the current refcount.
func (c *Connection) Refcount() int32 { return atomic.LoadInt32(&c.refcount) }

// DisconnectCookie returns a Cookie suitable for a teardown-time engine
// call (ON_DISCONNECT, §C.2) that has no associated in-flight command.
// Reuses the first reserved Cookie slot if one exists so an engine's
// EngineData continuation from the last command is still visible;
// otherwise falls back to a scratch Cookie owned by the connection.
func (c *Connection) DisconnectCookie() *cookie.Cookie {
	if len(c.Cookies) > 0 {
		return c.Cookies[0]
	}
	return &c.discCookie
}

// CurrentCookie returns the sole in-flight Cookie for ordered execution,
// or the first still-pending one under unordered execution. Panics if no
// Cookie is outstanding — a logic error per §7 "Fatal internal".
func (c *Connection) CurrentCookie() *cookie.Cookie {
	if len(c.Cookies) == 0 {
		panic("conn: CurrentCookie called with no outstanding cookie")
	}
	return c.Cookies[0]
}

// ReserveCookie returns the Cookie for the next command (§3 "created when
// a connection reserves its next slot"). The connection keeps a single
// Cookie slot: it is allocated on first use and reset on every later
// call. Negotiating UnorderedExecution does not add further Cookies.
func (c *Connection) ReserveCookie() *cookie.Cookie {
	if len(c.Cookies) == 0 {
		ck := &cookie.Cookie{}
		c.Cookies = append(c.Cookies, ck)
		return ck
	}
	ck := c.Cookies[0]
	ck.Reset()
	return ck
}

// AllowUnordered reports whether this connection negotiated
// UnorderedExecution, permitting more than one outstanding Cookie.
func (c *Connection) AllowUnordered() bool {
	return c.Features.Has(transport.FeatureUnorderedExecution)
}

// ReserveItem records an engine item that must survive until transmit()
// completes, bumping nothing on the item itself — ownership remains the
// engine's, the core only promises not to let the backing memory be
// reused before release (§4.3 "reserveItem").
func (c *Connection) ReserveItem(it *engine.Item) {
	c.reservedItems = append(c.reservedItems, it)
}

// ReservedItems returns the current batch of reserved items.
func (c *Connection) ReservedItems() []*engine.Item { return c.reservedItems }

// ReleaseReservedItems releases every reserved item through the engine
// and clears the list, called once transmit() reports Complete or
// HardError (§4.4, §8 property 7).
func (c *Connection) ReleaseReservedItems() {
	for _, it := range c.reservedItems {
		if c.Engine != nil {
			c.Engine.ItemRelease(it)
		}
	}
	c.reservedItems = c.reservedItems[:0]
}

// AddTempAlloc records a scratch allocation to be freed after transmit.
func (c *Connection) AddTempAlloc(b []byte) {
	c.tempAlloc = append(c.tempAlloc, b)
}

// ReleaseTempAlloc drops every scratch allocation recorded since the last
// release (§4.4 "releaseTempAlloc").
func (c *Connection) ReleaseTempAlloc() {
	c.tempAlloc = c.tempAlloc[:0]
}

// SetBucket atomically swaps the selected bucket index and engine handle
// so a concurrent dispatch on the same connection never observes a
// mismatched (index, engine) pair (§3 invariants).
func (c *Connection) SetBucket(index int, h engine.Handle) {
	c.bucketMu.Lock()
	defer c.bucketMu.Unlock()
	c.BucketIndex = index
	c.Engine = h
}

// CurrentEngine returns the connection's selected engine handle.
func (c *Connection) CurrentEngine() engine.Handle {
	c.bucketMu.RLock()
	defer c.bucketMu.RUnlock()
	return c.Engine
}

// QueueEvent appends a server event to be drained between commands
// (§4.5).
func (c *Connection) QueueEvent(e ServerEvent) {
	c.mu.Lock()
	c.Events = append(c.Events, e)
	c.mu.Unlock()
}

// DrainEvents runs every queued server event in order and reports whether
// any of them advanced the state machine.
func (c *Connection) DrainEvents() (advanced bool) {
	c.mu.Lock()
	events := c.Events
	c.Events = nil
	c.mu.Unlock()

	for _, e := range events {
		if e.Apply(c) {
			advanced = true
		}
	}
	return advanced
}

// ShouldYield reports whether the connection has exhausted its command
// budget for this reactor visit (§4.1 "Command yielding").
func (c *Connection) ShouldYield() bool {
	return c.NumEvents <= 0
}

// ConsumeEvent decrements the per-visit command budget.
func (c *Connection) ConsumeEvent() {
	c.NumEvents--
}

// ResetEventBudget reinitializes NumEvents to maxReqsPerEvent; the state
// machine calls it once at the start of every Step (§4.1).
func (c *Connection) ResetEventBudget(maxReqsPerEvent int) {
	c.NumEvents = maxReqsPerEvent
}

// LoanBuffers is conn_loan_buffers(c): ensures both Pipes are present,
// consulting the worker's pool first (§4.6). Returns false if allocation
// failed (caller must force Closing).
func (c *Connection) LoanBuffers(dataBufferSize int) bool {
	pool := c.Worker.BufferPool()
	r, _ := pool.LoanRead(c.Read)
	w, _ := pool.LoanWrite(c.Write)
	if r == nil || w == nil {
		return false
	}
	c.Read, c.Write = r, w
	return true
}

// StageRead is called by the connection's read pump goroutine (owned by
// package worker) with bytes freshly read off the socket, an error that
// ended the pump's loop (EOF, reset, ...), or both. Safe to call
// concurrently with the owning worker goroutine — this is the only
// point where a second goroutine touches Connection state, and it never
// touches Read/Write directly, only the staging buffer IngestSocketData
// later drains from the owning goroutine.
func (c *Connection) StageRead(b []byte, err error) {
	c.pendingMu.Lock()
	if len(b) > 0 {
		c.pendingData = append(c.pendingData, b...)
	}
	if err != nil {
		c.pendingErr = err
	}
	c.pendingMu.Unlock()
}

// IngestSocketData moves whatever the read pump has staged since the
// last call into the read Pipe, growing it as needed (§4.1's read
// states only ever consult c.Read). Must be called from the connection's
// owning worker goroutine. Returns true if the pump's loop ended
// (socket closed or errored) and the caller should force the connection
// closed once the staged bytes, if any, have been consumed.
func (c *Connection) IngestSocketData(dataBufferSize int) bool {
	c.pendingMu.Lock()
	data := c.pendingData
	c.pendingData = nil
	err := c.pendingErr
	c.pendingErr = nil
	c.pendingMu.Unlock()

	if len(data) > 0 {
		c.LoanBuffers(dataBufferSize)
		if e := c.Read.EnsureCapacity(len(data)); e != nil {
			return true
		}
		c.Read.Produced(copy(c.Read.WData(), data))
	}
	return err != nil
}

// ReturnBuffers is conn_return_buffers(c): hands empty Pipes back to the
// worker's pool (skipped for DCP connections, which are steady-state
// writers and never go idle, §3 "BufferPool").
func (c *Connection) ReturnBuffers() {
	if c.IsDCP {
		return
	}
	pool := c.Worker.BufferPool()
	if c.Read != nil && c.Read.Empty() {
		pool.ReturnRead(c.Read)
		c.Read = nil
	}
	if c.Write != nil && c.Write.Empty() {
		pool.ReturnWrite(c.Write)
		c.Write = nil
	}
}

// AddMsgHdr appends a fresh, empty msghdr (optionally resetting the whole
// list) to the connection's send queue.
func (c *Connection) AddMsgHdr(reset bool) {
	if reset {
		c.MsgCurr = 0
	}
	c.Msgs = AddMsgHdr(c.Msgs, reset)
}

// AddIov appends data to the connection's current msghdr.
func (c *Connection) AddIov(data []byte, fromPipe bool) {
	c.Msgs = AddIov(c.Msgs, data, fromPipe)
}

// rawWriterAdapter turns a net.Conn into a RawWriter, translating a
// deadline-exceeded net.Error into ErrWouldBlock so Transmit's SoftError
// path (yield on RegisterWrite rather than block) applies to a plain
// net.Conn the same way it would to a true non-blocking socket.
type rawWriterAdapter struct {
	net.Conn
}

func (r rawWriterAdapter) WriteSome(p []byte) (int, error) {
	n, err := r.Conn.Write(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, err
	}
	return n, nil
}

// Transmit drains the connection's send queue (§4.4). On Complete or
// HardError it releases reserved items and scratch allocations; on
// Complete it also moves State to WriteAndGo.
func (c *Connection) Transmit(_ context.Context) Result {
	res := Transmit(rawWriterAdapter{c.Socket}, c.Msgs, &c.MsgCurr, func(n int) {
		if c.Write != nil {
			c.Write.Consumed(n)
		}
	})
	switch res {
	case Complete:
		c.ReleaseTempAlloc()
		c.ReleaseReservedItems()
		c.Msgs = c.Msgs[:0]
		c.MsgCurr = 0
		c.State = c.WriteAndGo
	case HardError:
		c.ReleaseTempAlloc()
		c.ReleaseReservedItems()
		c.State = StateClosing
	}
	return res
}

// PendingSend reports whether there is unsent data queued.
func (c *Connection) PendingSend() bool {
	return c.MsgCurr < len(c.Msgs)
}
