// Package worker implements the reactor pool (§4.1, §4.2): a fixed set
// of worker goroutines, each owning a disjoint set of connections and
// driving them through package statemachine. Grounded on the teacher's
// dcp_feed gen-server loop (secondary/dcp/transport/client/dcp_feed.go)
// for the channel-driven "one owner goroutine per unit of work" pattern,
// generalized here from one feed to N connections multiplexed onto one
// worker via a pending-io notification channel instead of dcp_feed's
// single reqch.
package worker

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/couchbase/mcbpcore/bufferpool"
	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/logging"
	"github.com/couchbase/mcbpcore/statemachine"
)

var log = logging.Get("worker")

var (
	scheduleLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mcbpcore",
		Subsystem: "worker",
		Name:      "step_duration_seconds",
		Help:      "Wall-clock time spent inside one Machine.Step call.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 16),
	}, []string{"worker"})

	connectionsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mcbpcore",
		Subsystem: "worker",
		Name:      "connections",
		Help:      "Connections currently owned by a worker.",
	}, []string{"worker"})
)

// MustRegister registers this package's metrics with reg. Called once
// from cmd/ wiring.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(scheduleLatency, connectionsGauge)
}

// BucketLocator resolves SELECT_BUCKET by name (dispatch.BucketLocator);
// declared again here, structurally, so that package worker does not
// import package dispatch (conn.WorkerHandle methods are likewise
// satisfied structurally).
type BucketLocator interface {
	SelectBucket(name string) (index int, h engine.Handle, st engine.Status)
}

// Worker owns a disjoint subset of connections and drives each one's
// state machine from its own goroutine, picked up off a channel of
// connections that became ready (newly accepted by Assign, or woken by
// NotifyPendingIO).
type Worker struct {
	id     int
	name   string
	pool   *bufferpool.Pool
	ready  chan *conn.Connection
	done   chan struct{}

	mu    sync.Mutex
	conns map[*conn.Connection]struct{}

	machine        *statemachine.Machine
	locator        BucketLocator
	dataBufferSize int
}

// New creates one Worker. dataBufferSize/maxReqsPerEvent come from
// config (§3 defaults), d is the shared Dispatcher instance (stateless
// beyond its opcode table, safe to share across every worker).
func New(id int, d statemachine.Dispatcher, locator BucketLocator, maxReqsPerEvent, dataBufferSize, targetBufCap int) *Worker {
	w := &Worker{
		id:             id,
		name:           workerName(id),
		pool:           bufferpool.New(targetBufCap),
		ready:          make(chan *conn.Connection, 256),
		done:           make(chan struct{}),
		conns:          make(map[*conn.Connection]struct{}),
		machine:        statemachine.New(d, maxReqsPerEvent, dataBufferSize),
		locator:        locator,
		dataBufferSize: dataBufferSize,
	}
	return w
}

func workerName(id int) string {
	return fmt.Sprintf("w%d", id)
}

// Assign hands a freshly accepted connection to this worker, starts its
// dedicated read pump, and wakes the reactor loop.
func (w *Worker) Assign(c *conn.Connection) {
	w.mu.Lock()
	w.conns[c] = struct{}{}
	w.mu.Unlock()
	connectionsGauge.WithLabelValues(w.name).Inc()
	go w.readPump(c)
	w.ready <- c
}

// readPump is a connection's dedicated reader goroutine, grounded on the
// teacher's dcp_feed.go doReceive loop: one blocking Socket.Read per
// iteration, handed off (StageRead) rather than parsed in place, then a
// NotifyPendingIO wakes the owning worker to ingest it (§4.2 "read
// pump"). Blocking here never stalls the reactor — each connection owns
// its pump, not the worker goroutine that runs its state machine. Exits
// once Read returns an error (the socket closed or reset).
func (w *Worker) readPump(c *conn.Connection) {
	buf := make([]byte, 16*1024)
	for {
		n, err := c.Socket.Read(buf)
		if n > 0 {
			got := make([]byte, n)
			copy(got, buf[:n])
			c.StageRead(got, nil)
		}
		if err != nil {
			c.StageRead(nil, err)
			w.NotifyPendingIO(c)
			return
		}
		w.NotifyPendingIO(c)
	}
}

// Register implements conn.WorkerHandle. The actual socket-readiness
// watch is the connection's read pump goroutine (started in Assign),
// which reads regardless of registration; Register only records the
// requested registration on c.Registration.
func (w *Worker) Register(c *conn.Connection, reg conn.EventRegistration) {
	c.Registration = reg
}

// Unregister drops a connection from this worker's bookkeeping once it
// reaches StateDestroyed.
func (w *Worker) Unregister(c *conn.Connection) {
	w.mu.Lock()
	delete(w.conns, c)
	w.mu.Unlock()
	connectionsGauge.WithLabelValues(w.name).Dec()
}

// NotifyPendingIO implements conn.WorkerHandle: the engine's wake
// callback re-enqueues the connection so the next Run iteration resumes
// its state machine from Execute (§4.3 wake contract).
func (w *Worker) NotifyPendingIO(c *conn.Connection) {
	select {
	case w.ready <- c:
	case <-w.done:
	}
}

// BufferPool implements conn.WorkerHandle.
func (w *Worker) BufferPool() *bufferpool.Pool { return w.pool }

// SelectBucket implements dispatch.BucketLocator by delegating to this
// worker's shared locator (every worker in a Pool shares one bucket
// registry).
func (w *Worker) SelectBucket(name string) (int, engine.Handle, engine.Status) {
	return w.locator.SelectBucket(name)
}

// Run drives the reactor loop until ctx is cancelled. Each readied
// connection gets exactly one Machine.Step call per pass through ready;
// a connection that still has work left (returned RegisterRead/Write
// because it's mid-flight, not because it's idle) is not re-enqueued
// here — package statemachine already consumed its whole event budget
// before yielding, and the connection's own read pump goroutine
// (started in Assign) is what re-wakes it next via NotifyPendingIO once
// more bytes land.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			close(w.done)
			return ctx.Err()
		case c := <-w.ready:
			w.step(ctx, c)
		}
	}
}

// step drives one Machine.Step call, panic-safe the way the teacher's
// dcp_feed gen-server loop is (§C.2 "a state that skips a step on
// panic-recovery must still run the remaining steps"): an executor bug
// that panics mid-command must not wedge the worker or leak the
// connection's bucket reference, so a recovered panic is treated as a
// forced close and still runs the same teardown every other closing
// path runs, just re-entering Step to do it instead of duplicating it.
func (w *Worker) step(ctx context.Context, c *conn.Connection) {
	if c.State == conn.StateDestroyed {
		// Already torn down and unregistered; a late wake (e.g. the read
		// pump's last NotifyPendingIO after Socket.Close) is ignored.
		return
	}
	if c.IngestSocketData(w.dataBufferSize) {
		statemachine.ForceClose(c)
	}

	start := time.Now()
	reg := w.runStep(ctx, c)
	scheduleLatency.WithLabelValues(w.name).Observe(time.Since(start).Seconds())
	c.CPU.Record(time.Since(start))

	if reg == conn.RegisterNone {
		if c.State == conn.StateDestroyed {
			w.Unregister(c)
		}
		return
	}
	c.Registration = reg
}

func (w *Worker) runStep(ctx context.Context, c *conn.Connection) (reg conn.EventRegistration) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("worker %s: connection %s panicked: %v", w.name, c.PeerName, r)
			statemachine.ForceClose(c)
			reg = w.machine.Step(ctx, c)
		}
	}()
	return w.machine.Step(ctx, c)
}

// Pool runs a fixed-size set of Workers sharing one ctx lifetime
// (§4.2, adapted from the teacher's errgroup-based component supervision
// pattern).
type Pool struct {
	workers []*Worker
	g       *errgroup.Group
}

// NewPool creates n Workers.
func NewPool(n int, d statemachine.Dispatcher, locator BucketLocator, maxReqsPerEvent, dataBufferSize, targetBufCap int) *Pool {
	p := &Pool{}
	for i := 0; i < n; i++ {
		p.workers = append(p.workers, New(i, d, locator, maxReqsPerEvent, dataBufferSize, targetBufCap))
	}
	return p
}

// Start launches every worker's Run loop under ctx, returning once they
// have all been scheduled (not once they exit — call Wait for that).
func (p *Pool) Start(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	p.g = g
	for _, w := range p.workers {
		w := w
		g.Go(func() error { return w.Run(ctx) })
	}
}

// Wait blocks until every worker has exited, returning the first
// non-context-cancellation error encountered.
func (p *Pool) Wait() error {
	if p.g == nil {
		return nil
	}
	return p.g.Wait()
}

// AssignNewSocket builds a Connection around a freshly accepted socket
// and routes it to a worker by hashing the remote address with xxh3, so
// a given peer always lands on the same worker rather than spreading
// across the pool by accident on reconnect (§4.2 "connection -> worker
// assignment").
func (p *Pool) AssignNewSocket(socket net.Conn) *conn.Connection {
	idx := int(xxh3.HashString(socket.RemoteAddr().String()) % uint64(len(p.workers)))
	w := p.workers[idx]
	c := conn.New(socket, w)
	w.Assign(c)
	return c
}
