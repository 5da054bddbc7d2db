package conn

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/mcbpcore/bufferpool"
	"github.com/couchbase/mcbpcore/engine"
)

// fakeWorker is the minimal WorkerHandle a Connection needs for tests: a
// single shared bufferpool.Pool, a record of every Register call and a
// count of NotifyPendingIO calls.
type fakeWorker struct {
	pool           *bufferpool.Pool
	registered     []EventRegistration
	notifiedPending int
}

func newFakeWorker() *fakeWorker {
	return &fakeWorker{pool: bufferpool.New(64)}
}

func (w *fakeWorker) Register(c *Connection, reg EventRegistration) {
	w.registered = append(w.registered, reg)
}
func (w *fakeWorker) Unregister(c *Connection)        {}
func (w *fakeWorker) NotifyPendingIO(c *Connection)   { w.notifiedPending++ }
func (w *fakeWorker) BufferPool() *bufferpool.Pool    { return w.pool }

// fakeEngine implements engine.Handle, recording ItemRelease calls; Dcp
// returns nil, OnDisconnect does nothing, and every other method panics
// if reached since no test in this file exercises the dispatcher.
type fakeEngine struct {
	released []*engine.Item
}

func (f *fakeEngine) Get(context.Context, engine.Cookie, uint16, []byte) (*engine.Item, engine.Status) {
	panic("not used")
}
func (f *fakeEngine) GetLocked(context.Context, engine.Cookie, uint16, []byte, uint32) (*engine.Item, engine.Status) {
	panic("not used")
}
func (f *fakeEngine) Unlock(context.Context, engine.Cookie, uint16, []byte, uint64) engine.Status {
	panic("not used")
}
func (f *fakeEngine) Store(context.Context, engine.Cookie, uint16, *engine.Item, uint64) (engine.Mutation, engine.Status) {
	panic("not used")
}
func (f *fakeEngine) Remove(context.Context, engine.Cookie, uint16, []byte, uint64) (engine.Mutation, engine.Status) {
	panic("not used")
}
func (f *fakeEngine) Flush(context.Context, engine.Cookie) engine.Status { panic("not used") }
func (f *fakeEngine) GetItemInfo(context.Context, engine.Cookie, *engine.Item) (engine.ItemInfo, engine.Status) {
	panic("not used")
}
func (f *fakeEngine) ItemRelease(item *engine.Item) { f.released = append(f.released, item) }
func (f *fakeEngine) UnknownCommand(context.Context, engine.Cookie, uint8, []byte, []byte, []byte) ([]byte, engine.Status) {
	panic("not used")
}
func (f *fakeEngine) Dcp() engine.DcpProducer                          { return nil }
func (f *fakeEngine) OnDisconnect(context.Context, engine.Cookie) {}

func newTestConnection(t *testing.T) (*Connection, net.Conn, *fakeWorker) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { serverSide.Close(); clientSide.Close() })
	w := newFakeWorker()
	c := New(serverSide, w)
	return c, clientSide, w
}

func TestNewConnectionInitialState(t *testing.T) {
	c, _, _ := newTestConnection(t)
	require.Equal(t, StateNewCmd, c.State)
	require.Equal(t, StateNewCmd, c.WriteAndGo)
	require.EqualValues(t, 1, c.Refcount())
}

func TestRefCounting(t *testing.T) {
	c, _, _ := newTestConnection(t)
	require.EqualValues(t, 2, c.Ref())
	require.EqualValues(t, 1, c.Unref())
}

func TestReserveCookieReusesSlot(t *testing.T) {
	c, _, _ := newTestConnection(t)
	first := c.ReserveCookie()
	first.Cas = 42
	second := c.ReserveCookie()
	require.Same(t, first, second)
	require.Zero(t, second.Cas, "Reset must clear stale state on reuse")
}

func TestCurrentCookiePanicsWhenNoneOutstanding(t *testing.T) {
	c, _, _ := newTestConnection(t)
	require.Panics(t, func() { c.CurrentCookie() })
}

func TestReserveAndReleaseItems(t *testing.T) {
	c, _, _ := newTestConnection(t)
	eng := &fakeEngine{}
	c.SetBucket(0, eng)

	it1 := &engine.Item{Key: []byte("a")}
	it2 := &engine.Item{Key: []byte("b")}
	c.ReserveItem(it1)
	c.ReserveItem(it2)
	require.Len(t, c.ReservedItems(), 2)

	c.ReleaseReservedItems()
	require.Empty(t, c.ReservedItems())
	require.ElementsMatch(t, []*engine.Item{it1, it2}, eng.released)
}

func TestSetBucketAndCurrentEngine(t *testing.T) {
	c, _, _ := newTestConnection(t)
	eng := &fakeEngine{}
	c.SetBucket(3, eng)
	require.Equal(t, 3, c.BucketIndex)
	require.Same(t, engine.Handle(eng), c.CurrentEngine())
}

func TestLoanAndReturnBuffers(t *testing.T) {
	c, _, w := newTestConnection(t)
	require.True(t, c.LoanBuffers(64))
	require.NotNil(t, c.Read)
	require.NotNil(t, c.Write)

	// A non-empty write pipe is not returned to the pool.
	c.Write.WData()[0] = 'x'
	c.Write.Produced(1)
	c.ReturnBuffers()
	require.NotNil(t, c.Write, "non-empty write pipe must stay with the connection")
	require.False(t, w.pool.HasFreeWrite())

	c.Write.Consumed(1)
	c.ReturnBuffers()
	require.Nil(t, c.Write)
	require.True(t, w.pool.HasFreeWrite())
}

func TestIsDCPSkipsBufferReturn(t *testing.T) {
	c, _, w := newTestConnection(t)
	c.IsDCP = true
	require.True(t, c.LoanBuffers(64))
	c.ReturnBuffers()
	require.NotNil(t, c.Read)
	require.NotNil(t, c.Write)
	require.False(t, w.pool.HasFreeRead())
}

type recordingEvent struct {
	ran      bool
	advances bool
}

func (e *recordingEvent) Apply(c *Connection) bool {
	e.ran = true
	return e.advances
}

func TestQueueAndDrainEvents(t *testing.T) {
	c, _, _ := newTestConnection(t)
	e1 := &recordingEvent{advances: false}
	e2 := &recordingEvent{advances: true}
	c.QueueEvent(e1)
	c.QueueEvent(e2)

	advanced := c.DrainEvents()
	require.True(t, e1.ran)
	require.True(t, e2.ran)
	require.True(t, advanced)
	require.Empty(t, c.Events)
}

func TestEventBudgetYield(t *testing.T) {
	c, _, _ := newTestConnection(t)
	c.ResetEventBudget(2)
	require.False(t, c.ShouldYield())
	c.ConsumeEvent()
	require.False(t, c.ShouldYield())
	c.ConsumeEvent()
	require.True(t, c.ShouldYield())
}

func TestTransmitCompleteReleasesReservedAndTempAllocs(t *testing.T) {
	c, clientSide, _ := newTestConnection(t)
	eng := &fakeEngine{}
	c.SetBucket(0, eng)

	it := &engine.Item{Key: []byte("k")}
	c.ReserveItem(it)
	c.AddTempAlloc(make([]byte, 4))

	c.AddMsgHdr(true)
	c.AddIov([]byte("payload"), false)
	c.WriteAndGo = StateNewCmd
	c.State = StateSendData

	readDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 16)
		n, _ := clientSide.Read(buf)
		readDone <- buf[:n]
	}()

	res := c.Transmit(context.Background())
	require.Equal(t, Complete, res)
	require.Equal(t, StateNewCmd, c.State)
	require.Empty(t, c.ReservedItems())
	require.Empty(t, c.tempAlloc)
	require.ElementsMatch(t, []*engine.Item{it}, eng.released)
	require.Equal(t, "payload", string(<-readDone))
}
