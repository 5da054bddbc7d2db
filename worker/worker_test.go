package worker

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/engine"
)

type fakeDispatcher struct{}

func (fakeDispatcher) ParseCommand(c *conn.Connection) (bool, error) { return false, nil }
func (fakeDispatcher) Execute(ctx context.Context, c *conn.Connection) {}
func (fakeDispatcher) StepDCP(ctx context.Context, c *conn.Connection) bool { return false }

// panicDispatcher panics out of ParseCommand exactly once, simulating a
// buggy executor, then behaves like fakeDispatcher.
type panicDispatcher struct{ panicked bool }

func (d *panicDispatcher) ParseCommand(c *conn.Connection) (bool, error) {
	if !d.panicked {
		d.panicked = true
		panic("boom")
	}
	return false, nil
}
func (d *panicDispatcher) Execute(ctx context.Context, c *conn.Connection)     {}
func (d *panicDispatcher) StepDCP(ctx context.Context, c *conn.Connection) bool { return false }

type fakeLocator struct{}

func (fakeLocator) SelectBucket(name string) (int, engine.Handle, engine.Status) {
	return 0, nil, engine.NotSupported
}

func TestPeerHashRoutesDeterministically(t *testing.T) {
	p := NewPool(4, fakeDispatcher{}, fakeLocator{}, 20, 1024, 64)

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	c := conn.New(server, p.workers[0])

	// Same peer name must always land on the same worker index.
	idx := func() int { return int(xxh3.HashString(c.PeerName) % uint64(len(p.workers))) }
	require.Equal(t, idx(), idx())
}

func TestStepRecoversPanicAndDrivesConnectionToDestroyed(t *testing.T) {
	w := New(0, &panicDispatcher{}, fakeLocator{}, 20, 1024, 64)
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	c := conn.New(server, w)
	c.State = conn.StateParseCmd

	require.NotPanics(t, func() { w.step(context.Background(), c) })
	require.Equal(t, conn.StateDestroyed, c.State)
}

func TestWorkerStepsAssignedConnectionToDestroyed(t *testing.T) {
	w := New(0, fakeDispatcher{}, fakeLocator{}, 20, 1024, 64)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	c := conn.New(server, w)
	c.State = conn.StateClosing
	w.Assign(c)

	require.Eventually(t, func() bool {
		return c.State == conn.StateDestroyed
	}, time.Second, 5*time.Millisecond)
}
