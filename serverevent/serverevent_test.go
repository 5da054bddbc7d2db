package serverevent

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/mcbpcore/bufferpool"
	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/transport"
)

type fakeWorker struct{ pool *bufferpool.Pool }

func (w *fakeWorker) Register(*conn.Connection, conn.EventRegistration) {}
func (w *fakeWorker) Unregister(*conn.Connection)                       {}
func (w *fakeWorker) NotifyPendingIO(*conn.Connection)                  {}
func (w *fakeWorker) BufferPool() *bufferpool.Pool                      { return w.pool }

func newTestConn(t *testing.T) *conn.Connection {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { server.Close(); client.Close() })
	return conn.New(server, &fakeWorker{pool: bufferpool.New(64)})
}

func TestClustermapChangeSkippedWithoutCCCP(t *testing.T) {
	c := newTestConn(t)
	e := &ClustermapChange{Revision: 1, Payload: []byte("{}")}
	require.False(t, e.Apply(c))
	require.Empty(t, c.Msgs)
}

func TestClustermapChangeQueuesFrameWhenNegotiated(t *testing.T) {
	c := newTestConn(t)
	c.Features = transport.NewFeatureSet([]transport.Feature{transport.FeatureClustermapChangeNotification})
	e := &ClustermapChange{Revision: 5, Payload: []byte("{}")}
	require.True(t, e.Apply(c))
	require.NotEmpty(t, c.Msgs)
}

func TestDisconnectForcesClosing(t *testing.T) {
	c := newTestConn(t)
	c.State = conn.StateWaiting
	e := &Disconnect{Reason: "bucket deleted"}
	require.True(t, e.Apply(c))
	require.Equal(t, conn.StateClosing, c.State)
}
