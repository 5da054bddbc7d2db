// Command mcbpd wires the reactor pool, dispatch table, and a listener
// socket together. Bucket/engine provisioning is out of scope (§1); this
// binary exists so the core is runnable-in-spirit, not as a product
// entry point.
package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchbase/mcbpcore/config"
	"github.com/couchbase/mcbpcore/dispatch"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/logging"
	"github.com/couchbase/mcbpcore/worker"
)

var log = logging.Get("main")

// noBuckets is the BucketLocator installed when no bucket registry is
// wired in (always, in this core-only binary); every SELECT_BUCKET fails
// with NotSupported rather than panicking.
type noBuckets struct{}

func (noBuckets) SelectBucket(name string) (int, engine.Handle, engine.Status) {
	return 0, nil, engine.NotSupported
}

func main() {
	listenAddr := flag.String("listen", ":11211", "binary protocol listen address")
	metricsAddr := flag.String("metrics", ":9091", "Prometheus metrics listen address")
	logLevel := flag.String("log-level", "info", "log level: silent|fatal|error|warning|info|debug|trace")
	flag.Parse()

	logging.SetLevel(logging.Level(*logLevel))

	cfg := config.SystemDefault.Clone()
	numWorkers := cfg["server.numWorkers"].Int()
	maxReqsPerEvent := cfg["server.maxReqsPerEvent"].Int()
	dataBufferSize := cfg["server.dataBufferSize"].Int()

	reg := prometheus.NewRegistry()
	worker.MustRegister(reg)
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.Errorf("metrics server exited: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := dispatch.New()
	pool := worker.NewPool(numWorkers, d, noBuckets{}, maxReqsPerEvent, dataBufferSize, dataBufferSize)
	pool.Start(ctx)

	ln, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		log.Fatalf("listen %s: %v", *listenAddr, err)
	}
	log.Infof("mcbpd listening on %s with %d workers", *listenAddr, numWorkers)

	go acceptLoop(ctx, ln, pool)

	<-ctx.Done()
	ln.Close()
	if err := pool.Wait(); err != nil && ctx.Err() == nil {
		log.Errorf("worker pool exited: %v", err)
	}
}

func acceptLoop(ctx context.Context, ln net.Listener, pool *worker.Pool) {
	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("accept: %v", err)
			continue
		}
		pool.AssignNewSocket(c)
	}
}
