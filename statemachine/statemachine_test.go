package statemachine

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/mcbpcore/bufferpool"
	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/engine"
)

type fakeWorker struct{ pool *bufferpool.Pool }

func (w *fakeWorker) Register(*conn.Connection, conn.EventRegistration) {}
func (w *fakeWorker) Unregister(*conn.Connection)                       {}
func (w *fakeWorker) NotifyPendingIO(*conn.Connection)                  {}
func (w *fakeWorker) BufferPool() *bufferpool.Pool                      { return w.pool }

// fakeDispatcher lets each test script exactly what ParseCommand/Execute/
// StepDCP should do without pulling in the real dispatch package (which
// itself depends on statemachine's sibling packages only, avoiding a
// cycle, but keeping this test hermetic is simpler and faster).
type fakeDispatcher struct {
	parseResults []parseResult
	parseIdx     int
	alwaysOK     bool
	executeFn    func(c *conn.Connection)
	dcpMore      []bool
	dcpIdx       int
}

type parseResult struct {
	ok  bool
	err error
}

func (f *fakeDispatcher) ParseCommand(c *conn.Connection) (bool, error) {
	if f.alwaysOK {
		return true, nil
	}
	if f.parseIdx >= len(f.parseResults) {
		return false, nil
	}
	r := f.parseResults[f.parseIdx]
	f.parseIdx++
	return r.ok, r.err
}

func (f *fakeDispatcher) Execute(ctx context.Context, c *conn.Connection) {
	if f.executeFn != nil {
		f.executeFn(c)
	}
}

func (f *fakeDispatcher) StepDCP(ctx context.Context, c *conn.Connection) bool {
	if f.dcpIdx >= len(f.dcpMore) {
		return false
	}
	r := f.dcpMore[f.dcpIdx]
	f.dcpIdx++
	return r
}

// disconnectEngine records whether the bucket was still attached to the
// connection at the moment OnDisconnect fired (§C.2 ordering).
type disconnectEngine struct {
	c            *conn.Connection
	called       bool
	stillCurrent bool
}

func (e *disconnectEngine) Get(context.Context, engine.Cookie, uint16, []byte) (*engine.Item, engine.Status) {
	panic("not used")
}
func (e *disconnectEngine) GetLocked(context.Context, engine.Cookie, uint16, []byte, uint32) (*engine.Item, engine.Status) {
	panic("not used")
}
func (e *disconnectEngine) Unlock(context.Context, engine.Cookie, uint16, []byte, uint64) engine.Status {
	panic("not used")
}
func (e *disconnectEngine) Store(context.Context, engine.Cookie, uint16, *engine.Item, uint64) (engine.Mutation, engine.Status) {
	panic("not used")
}
func (e *disconnectEngine) Remove(context.Context, engine.Cookie, uint16, []byte, uint64) (engine.Mutation, engine.Status) {
	panic("not used")
}
func (e *disconnectEngine) Flush(context.Context, engine.Cookie) engine.Status { panic("not used") }
func (e *disconnectEngine) GetItemInfo(context.Context, engine.Cookie, *engine.Item) (engine.ItemInfo, engine.Status) {
	panic("not used")
}
func (e *disconnectEngine) ItemRelease(*engine.Item) {}
func (e *disconnectEngine) UnknownCommand(context.Context, engine.Cookie, uint8, []byte, []byte, []byte) ([]byte, engine.Status) {
	panic("not used")
}
func (e *disconnectEngine) Dcp() engine.DcpProducer { return nil }
func (e *disconnectEngine) OnDisconnect(ctx context.Context, ck engine.Cookie) {
	e.called = true
	e.stillCurrent = e.c.CurrentEngine() != nil
}

func newTestConn(t *testing.T) (*conn.Connection, *fakeWorker) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })
	w := &fakeWorker{pool: bufferpool.New(256)}
	c := conn.New(server, w)
	return c, w
}

func TestStepNewCmdToWaitingWhenNoData(t *testing.T) {
	c, _ := newTestConn(t)
	m := New(&fakeDispatcher{}, 20, 256)
	reg := m.Step(context.Background(), c)
	require.Equal(t, conn.RegisterRead, reg)
	require.Equal(t, conn.StateWaiting, c.State)
}

func TestStepWaitingResumesOnceDataArrives(t *testing.T) {
	c, _ := newTestConn(t)
	c.State = conn.StateWaiting
	m := New(&fakeDispatcher{}, 20, 256)

	reg := m.Step(context.Background(), c)
	require.Equal(t, conn.RegisterRead, reg, "still no data: must re-yield, not spin")
	require.Equal(t, conn.StateWaiting, c.State)

	c.LoanBuffers(256)
	c.Read.Produced(copy(c.Read.WData(), make([]byte, 24)))

	reg = m.Step(context.Background(), c)
	require.NotEqual(t, conn.StateWaiting, c.State, "must advance once data is staged, not stay parked")
}

func TestStepHeaderThenBodyThenExecute(t *testing.T) {
	c, _ := newTestConn(t)
	c.State = conn.StateReadPacketHeader
	c.LoanBuffers(256)
	c.Read.Produced(copy(c.Read.WData(), make([]byte, 24)))

	executed := false
	d := &fakeDispatcher{
		parseResults: []parseResult{{ok: false}, {ok: true}},
		executeFn:    func(c *conn.Connection) { executed = true; c.ReserveCookie() },
	}
	m := New(d, 20, 256)
	m.Step(context.Background(), c)
	require.True(t, executed)
}

func TestStepClosingWithOutstandingRefGoesPending(t *testing.T) {
	c, _ := newTestConn(t)
	c.Ref() // refcount now 2
	c.State = conn.StateClosing
	m := New(&fakeDispatcher{}, 20, 256)
	reg := m.Step(context.Background(), c)
	require.Equal(t, conn.RegisterNone, reg)
	require.Equal(t, conn.StatePendingClose, c.State)
}

func TestStepClosingReachesDestroyedWhenSoleRef(t *testing.T) {
	c, _ := newTestConn(t)
	c.State = conn.StateClosing
	m := New(&fakeDispatcher{}, 20, 256)
	reg := m.Step(context.Background(), c)
	require.Equal(t, conn.RegisterNone, reg)
	require.Equal(t, conn.StateDestroyed, c.State)
}

// TestYieldBound is §8 property 4: a connection with unlimited ready work
// (ParseCommand always reports a fresh command ready) must still yield
// back to the caller within MaxReqsPerEvent steps of StateNewCmd.
func TestYieldBound(t *testing.T) {
	c, _ := newTestConn(t)
	c.LoanBuffers(256)
	// Enough bytes present that RSize() never drops below a header's
	// worth, so the machine always finds a "ready" command pipelined.
	c.Read.Produced(copy(c.Read.WData(), make([]byte, 24)))
	d := &fakeDispatcher{alwaysOK: true}
	m := New(d, 5, 256)

	reg := m.Step(context.Background(), c)
	require.Equal(t, conn.RegisterRead, reg)
	require.LessOrEqual(t, c.NumEvents, 0)
}

func TestImmediateCloseRunsDisconnectHookBeforeClearingBucket(t *testing.T) {
	c, _ := newTestConn(t)
	eng := &disconnectEngine{c: c}
	c.SetBucket(3, eng)
	c.State = conn.StateClosing
	m := New(&fakeDispatcher{}, 20, 256)

	reg := m.Step(context.Background(), c)
	require.Equal(t, conn.RegisterNone, reg)
	require.Equal(t, conn.StateDestroyed, c.State)
	require.True(t, eng.called)
	require.True(t, eng.stillCurrent)
	require.Nil(t, c.CurrentEngine())
}

func TestForceCloseFromAnyState(t *testing.T) {
	c, _ := newTestConn(t)
	c.State = conn.StateWaiting
	ForceClose(c)
	require.Equal(t, conn.StateClosing, c.State)
}
