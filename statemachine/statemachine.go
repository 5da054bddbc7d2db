// Package statemachine drives one Connection through the twelve named
// states of §4.1, exactly the way the teacher's dcp_feed gen-server loop
// drives its own reqch/finch select: one callback per state, returning
// whether the reactor should loop immediately (still runnable) or yield
// back to the poller.
package statemachine

import (
	"context"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/logging"
)

var log = logging.Get("statemachine")

// DefaultMaxReqsPerEvent is the command budget New uses when given a
// value <= 0: it bounds how many commands a single Step call will drive
// through StateNewCmd before Step returns to the caller even though more
// work is ready (§4.1 "Command yielding", §8 property 4). Overridable per
// worker via config.
const DefaultMaxReqsPerEvent = 20

// Dispatcher is the narrow slice of package dispatch a statemachine needs:
// parse the next command out of a connection's read Pipe and execute it.
// Kept as an interface here (rather than importing package dispatch
// directly) so dispatch can in turn depend on conn/cookie/engine without
// creating an import cycle back through statemachine.
type Dispatcher interface {
	// ParseCommand attempts to decode one full request from c.Read.
	// ok is false when more bytes are needed.
	ParseCommand(c *conn.Connection) (ok bool, err error)
	// Execute runs the parsed command currently held by c's Cookie,
	// filling in the Cookie's Response (or parking it async).
	Execute(ctx context.Context, c *conn.Connection)
	// StepDCP drives one ship_log iteration for a DCP connection,
	// queuing whatever frames engine.DcpProducer.Step produced.
	StepDCP(ctx context.Context, c *conn.Connection) (more bool)
}

// Machine wraps a Dispatcher with the state-transition table.
type Machine struct {
	Dispatcher      Dispatcher
	MaxReqsPerEvent int
	DataBufferSize  int
}

func New(d Dispatcher, maxReqsPerEvent, dataBufferSize int) *Machine {
	if maxReqsPerEvent <= 0 {
		maxReqsPerEvent = DefaultMaxReqsPerEvent
	}
	return &Machine{Dispatcher: d, MaxReqsPerEvent: maxReqsPerEvent, DataBufferSize: dataBufferSize}
}

// Step runs c's state machine until it either needs more I/O (returns
// conn.RegisterRead/Write/ReadWrite), yields having exhausted its event
// budget (RegisterRead, ready to resume), or reaches StateDestroyed
// (RegisterNone, caller must drop the connection). This is the pure,
// synchronous core exercised directly by tests (§8 properties 3 and 4);
// package worker supplies the actual socket I/O around it.
func (m *Machine) Step(ctx context.Context, c *conn.Connection) conn.EventRegistration {
	c.ResetEventBudget(m.MaxReqsPerEvent)
	for {
		// Server events run only between commands, never mid-command.
		between := c.State == conn.StateNewCmd || c.State == conn.StateWaiting ||
			c.State == conn.StateShipLog
		if between && c.DrainEvents() {
			continue
		}

		switch c.State {
		case conn.StateNewCmd:
			m.stepNewCmd(c)

		case conn.StateWaiting:
			// Re-checked on every re-entry, not just once from
			// stepNewCmd: the connection's read pump (package worker)
			// stages bytes and re-enqueues asynchronously, so a
			// Waiting connection resumed here may now have data in
			// Read that it didn't have when it first yielded.
			if c.Read == nil || c.Read.RSize() == 0 {
				return conn.RegisterRead
			}
			c.State = conn.StateReadPacketHeader

		case conn.StateReadPacketHeader:
			if reg, done := m.stepReadHeader(c); done {
				return reg
			}

		case conn.StateParseCmd:
			m.stepParseCmd(c)

		case conn.StateReadPacketBody:
			if reg, done := m.stepReadBody(c); done {
				return reg
			}

		case conn.StateExecute:
			m.Dispatcher.Execute(ctx, c)
			if c.CurrentCookie().IsAsync() {
				return conn.RegisterNone // parked; engine will wake us
			}
			c.State = conn.StateSendData

		case conn.StateSendData:
			if reg, done := m.stepSendData(c); done {
				return reg
			}

		case conn.StateShipLog:
			return m.stepShipLog(ctx, c)

		case conn.StateClosing:
			m.stepClosing(c)

		case conn.StatePendingClose:
			if c.Refcount() > 1 {
				return conn.RegisterNone
			}
			c.State = conn.StateImmediateClose

		case conn.StateImmediateClose:
			runDisconnectHook(ctx, c)
			c.ReturnBuffers()
			// Unblocks the connection's read pump goroutine (§4.2), which
			// is otherwise still parked in a blocking Socket.Read.
			c.Socket.Close()
			c.State = conn.StateDestroyed
			return conn.RegisterNone

		case conn.StateDestroyed:
			return conn.RegisterNone

		default:
			log.Errorf("statemachine: unknown state %v, forcing closing", c.State)
			c.State = conn.StateClosing
		}

		if c.ShouldYield() {
			return conn.RegisterRead
		}
	}
}

func (m *Machine) stepNewCmd(c *conn.Connection) {
	c.ReserveCookie()
	if c.IsDCP {
		c.State = conn.StateShipLog
		return
	}
	c.ConsumeEvent()
	if c.Read != nil && c.Read.RSize() > 0 {
		c.State = conn.StateReadPacketHeader
		return
	}
	c.State = conn.StateWaiting
}

func (m *Machine) stepReadHeader(c *conn.Connection) (reg conn.EventRegistration, done bool) {
	if !c.LoanBuffers(m.DataBufferSize) {
		c.State = conn.StateClosing
		return conn.RegisterNone, false
	}
	if c.Read.RSize() < 24 {
		return conn.RegisterRead, true
	}
	c.State = conn.StateParseCmd
	return conn.RegisterNone, false
}

func (m *Machine) stepParseCmd(c *conn.Connection) {
	ok, err := m.Dispatcher.ParseCommand(c)
	if err != nil {
		log.Warnf("statemachine: bad frame from %s: %v", c.PeerName, err)
		c.State = conn.StateClosing
		return
	}
	if !ok {
		c.State = conn.StateReadPacketBody
		return
	}
	c.State = conn.StateExecute
}

func (m *Machine) stepReadBody(c *conn.Connection) (reg conn.EventRegistration, done bool) {
	ok, err := m.Dispatcher.ParseCommand(c)
	if err != nil {
		c.State = conn.StateClosing
		return conn.RegisterNone, false
	}
	if !ok {
		return conn.RegisterRead, true
	}
	c.State = conn.StateExecute
	return conn.RegisterNone, false
}

// stepSendData drains the send queue. done is false on a full drain
// (Complete): the connection has already moved to WriteAndGo and the
// caller's loop should keep spinning to pick up any pipelined command
// still sitting in the read Pipe, only yielding once NumEvents runs out.
func (m *Machine) stepSendData(c *conn.Connection) (reg conn.EventRegistration, done bool) {
	res := c.Transmit(context.Background())
	switch res {
	case conn.Complete:
		return conn.RegisterRead, false
	case conn.SoftError:
		return conn.RegisterWrite, true
	default: // HardError
		return conn.RegisterNone, true
	}
}

func (m *Machine) stepShipLog(ctx context.Context, c *conn.Connection) conn.EventRegistration {
	more := m.Dispatcher.StepDCP(ctx, c)
	if c.PendingSend() {
		res := c.Transmit(ctx)
		if res == conn.HardError {
			return conn.RegisterNone
		}
	}
	if more {
		c.ConsumeEvent()
		if c.ShouldYield() {
			return conn.RegisterWrite
		}
		return conn.RegisterReadWrite // stay in ship_log, allow control frames in
	}
	return conn.RegisterReadWrite
}

// runDisconnectHook calls the selected bucket's ON_DISCONNECT hook and
// then disassociates the bucket from the connection, in that order
// (§C.2 "ON_DISCONNECT callback and bucket disassociation ordering"): a
// bucket must still be reachable through c.CurrentEngine() while its own
// disconnect hook runs.
func runDisconnectHook(ctx context.Context, c *conn.Connection) {
	eng := c.CurrentEngine()
	if eng == nil {
		return
	}
	eng.OnDisconnect(ctx, c.DisconnectCookie())
	c.SetBucket(-1, nil)
}

func (m *Machine) stepClosing(c *conn.Connection) {
	c.ReleaseReservedItems()
	c.ReleaseTempAlloc()
	if c.Refcount() > 1 {
		c.State = conn.StatePendingClose
		return
	}
	c.State = conn.StateImmediateClose
}

// ForceClose transitions c straight to Closing regardless of its current
// state, e.g. from an idle-timeout sweep or a bucket deletion (§4.5).
func ForceClose(c *conn.Connection) {
	c.State = conn.StateClosing
}

// NotifyIOComplete resumes a connection parked in Execute (async
// EWOULDBLOCK) once the engine calls back (§4.3 wake contract).
func NotifyIOComplete(c *conn.Connection, status engine.Status) {
	c.CurrentCookie().NotifyIOComplete(status)
	c.State = conn.StateExecute
	c.Worker.NotifyPendingIO(c)
}
