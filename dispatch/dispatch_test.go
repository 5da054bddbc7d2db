package dispatch

import (
	"context"
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/mcbpcore/bufferpool"
	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

type fakeWorker struct{ pool *bufferpool.Pool }

func (w *fakeWorker) Register(*conn.Connection, conn.EventRegistration) {}
func (w *fakeWorker) Unregister(*conn.Connection)                       {}
func (w *fakeWorker) NotifyPendingIO(*conn.Connection)                  {}
func (w *fakeWorker) BufferPool() *bufferpool.Pool                      { return w.pool }

type fakeEngine struct {
	items map[string]*engine.Item
}

func newFakeEngine() *fakeEngine { return &fakeEngine{items: make(map[string]*engine.Item)} }

func (f *fakeEngine) Get(ctx context.Context, ck engine.Cookie, vb uint16, key []byte) (*engine.Item, engine.Status) {
	it, ok := f.items[string(key)]
	if !ok {
		return nil, engine.KeyEnoent
	}
	return it, engine.Success
}
func (f *fakeEngine) GetLocked(ctx context.Context, ck engine.Cookie, vb uint16, key []byte, t uint32) (*engine.Item, engine.Status) {
	return f.Get(ctx, ck, vb, key)
}
func (f *fakeEngine) Unlock(ctx context.Context, ck engine.Cookie, vb uint16, key []byte, cas uint64) engine.Status {
	return engine.Success
}
func (f *fakeEngine) Store(ctx context.Context, ck engine.Cookie, vb uint16, item *engine.Item, casCheck uint64) (engine.Mutation, engine.Status) {
	existing, exists := f.items[string(item.Key)]
	if casCheck != 0 {
		if !exists || existing.Cas != casCheck {
			return engine.Mutation{}, engine.KeyEexists
		}
	}
	item.Cas = casCheck + 1
	cp := *item
	f.items[string(item.Key)] = &cp
	return engine.Mutation{Cas: cp.Cas, SeqNo: 1}, engine.Success
}
func (f *fakeEngine) Remove(ctx context.Context, ck engine.Cookie, vb uint16, key []byte, casCheck uint64) (engine.Mutation, engine.Status) {
	if _, ok := f.items[string(key)]; !ok {
		return engine.Mutation{}, engine.KeyEnoent
	}
	delete(f.items, string(key))
	return engine.Mutation{Cas: 1}, engine.Success
}
func (f *fakeEngine) Flush(ctx context.Context, ck engine.Cookie) engine.Status {
	f.items = make(map[string]*engine.Item)
	return engine.Success
}
func (f *fakeEngine) GetItemInfo(ctx context.Context, ck engine.Cookie, item *engine.Item) (engine.ItemInfo, engine.Status) {
	it, ok := f.items[string(item.Key)]
	if !ok {
		return engine.ItemInfo{}, engine.KeyEnoent
	}
	return engine.ItemInfo{Cas: it.Cas}, engine.Success
}
func (f *fakeEngine) ItemRelease(item *engine.Item) {}
func (f *fakeEngine) UnknownCommand(ctx context.Context, ck engine.Cookie, opcode uint8, key, extras, value []byte) ([]byte, engine.Status) {
	return nil, engine.NotSupported
}
func (f *fakeEngine) Dcp() engine.DcpProducer                     { return nil }
func (f *fakeEngine) OnDisconnect(ctx context.Context, ck engine.Cookie) {}

func newTestConn(t *testing.T) *conn.Connection {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })
	w := &fakeWorker{pool: bufferpool.New(256)}
	c := conn.New(server, w)
	return c
}

func makeCookieReq(c *conn.Connection, opcode transport.CommandCode, extras, key, value []byte, cas uint64) {
	ck := c.ReserveCookie()
	ck.Header = transport.Header{
		Magic: transport.ReqMagic, Opcode: opcode,
		KeyLen: uint16(len(key)), ExtrasLen: uint8(len(extras)),
		BodyLen: uint32(len(extras) + len(key) + len(value)),
		CAS:     cas,
	}
	ck.Body = append(append(append([]byte{}, extras...), key...), value...)
}

func TestExecGetSuccess(t *testing.T) {
	c := newTestConn(t)
	eng := newFakeEngine()
	eng.items["foo"] = &engine.Item{Key: []byte("foo"), Value: []byte("bar"), Cas: 7}
	c.SetBucket(0, eng)
	makeCookieReq(c, transport.GET, nil, []byte("foo"), nil, 0)

	d := New()
	d.Execute(context.Background(), c)

	ck := c.CurrentCookie()
	require.False(t, ck.IsAsync())
	require.Equal(t, transport.SUCCESS, statusOf(ck.Response))
	require.Contains(t, c.ReservedItems(), eng.items["foo"])
}

func TestExecGetKeyEnoent(t *testing.T) {
	c := newTestConn(t)
	eng := newFakeEngine()
	c.SetBucket(0, eng)
	makeCookieReq(c, transport.GET, nil, []byte("missing"), nil, 0)

	d := New()
	d.Execute(context.Background(), c)

	require.Equal(t, transport.KEY_ENOENT, statusOf(c.CurrentCookie().Response))
}

func TestExecSetStoresValue(t *testing.T) {
	c := newTestConn(t)
	eng := newFakeEngine()
	c.SetBucket(0, eng)
	extras := make([]byte, 8)
	binary.BigEndian.PutUint32(extras[0:4], 0x42) // flags
	makeCookieReq(c, transport.SET, extras, []byte("k"), []byte("v1"), 0)

	d := New()
	d.Execute(context.Background(), c)
	require.Equal(t, transport.SUCCESS, statusOf(c.CurrentCookie().Response))
	require.Equal(t, "v1", string(eng.items["k"].Value))
}

func TestExecIncrementCreatesOnMissing(t *testing.T) {
	c := newTestConn(t)
	eng := newFakeEngine()
	c.SetBucket(0, eng)
	extras := make([]byte, 20)
	binary.BigEndian.PutUint64(extras[0:8], 5)  // delta
	binary.BigEndian.PutUint64(extras[8:16], 100) // initial
	binary.BigEndian.PutUint32(extras[16:20], 0)  // expiration (not 0xffffffff)
	makeCookieReq(c, transport.INCREMENT, extras, []byte("counter"), nil, 0)

	d := New()
	d.Execute(context.Background(), c)

	ck := c.CurrentCookie()
	require.Equal(t, transport.SUCCESS, statusOf(ck.Response))
	require.Equal(t, "100", string(eng.items["counter"].Value))
}

func TestExecDeleteMissingKey(t *testing.T) {
	c := newTestConn(t)
	eng := newFakeEngine()
	c.SetBucket(0, eng)
	makeCookieReq(c, transport.DELETE, nil, []byte("ghost"), nil, 0)

	d := New()
	d.Execute(context.Background(), c)
	require.Equal(t, transport.KEY_ENOENT, statusOf(c.CurrentCookie().Response))
}

func TestExecHelloNegotiatesKnownFeatures(t *testing.T) {
	c := newTestConn(t)
	value := make([]byte, 4)
	binary.BigEndian.PutUint16(value[0:2], uint16(transport.FeatureJSON))
	binary.BigEndian.PutUint16(value[2:4], 0xffff) // unknown, must be dropped
	makeCookieReq(c, transport.HELLO, nil, nil, value, 0)

	d := New()
	d.Execute(context.Background(), c)

	require.True(t, c.Features.Has(transport.FeatureJSON))
	ck := c.CurrentCookie()
	require.Equal(t, transport.SUCCESS, statusOf(ck.Response))
}

func TestRemapErrorCodeDowngradesUnnegotiatedStatus(t *testing.T) {
	fs := make(transport.FeatureSet)
	require.Equal(t, transport.EINTERNAL, remapErrorCode(engine.NotMyVbucket, fs))
	fs[transport.FeatureClustermapChangeNotification] = true
	require.Equal(t, transport.NOT_MY_VBUCKET, remapErrorCode(engine.NotMyVbucket, fs))
}

func TestQuietCommandSuppressesSuccessResponse(t *testing.T) {
	c := newTestConn(t)
	eng := newFakeEngine()
	c.SetBucket(0, eng)
	extras := make([]byte, 8)
	makeCookieReq(c, transport.SETQ, extras, []byte("k"), []byte("v"), 0)

	d := New()
	d.Execute(context.Background(), c)
	require.Empty(t, c.Msgs, "quiet success must not queue a response frame")
}

func TestNoBucketSelectedFailsDataCommand(t *testing.T) {
	c := newTestConn(t)
	makeCookieReq(c, transport.GET, nil, []byte("k"), nil, 0)
	d := New()
	d.Execute(context.Background(), c)
	require.Equal(t, transport.NOT_SUPPORTED, statusOf(c.CurrentCookie().Response))
}

// engine.Disconnect must never reach the wire as EINTERNAL (§7
// "Disconnect"): buildResponse suppresses the response entirely and
// forces the connection to closing once whatever's already queued
// drains, rather than remapping the status like any other error.
func TestEngineDisconnectSuppressesResponseAndForcesClosing(t *testing.T) {
	c := newTestConn(t)
	ck := c.ReserveCookie()
	ck.Header = transport.Header{Magic: transport.ReqMagic, Opcode: transport.GET}

	buildResponse(c, ck, engine.Disconnect, nil, nil, transport.DatatypeRaw)

	require.Nil(t, ck.Response)
	require.Equal(t, conn.StateClosing, c.WriteAndGo)
}
