// Package dcp implements the DCP-specific pieces that sit alongside the
// core state machine while a connection is in ship_log: buffer-ack flow
// control, per-vbucket seqno ordering, and the collection-aware key
// codec (§6 DCP framing, SPEC_FULL.md §C.6).
//
// Grounded on the teacher's secondary/dcp/transport/client/dcp_feed.go,
// which tracks an identical toAckBytes/maxAckBytes accounting loop for
// its own (consumer-side) buffer acknowledgements.
package dcp

import "errors"

// ErrBufferAckOverflow is returned by AckTracker.Consume when a consumer
// claims to be acking more bytes than it was ever sent — a protocol
// violation, not a recoverable condition.
var ErrBufferAckOverflow = errors.New("dcp: buffer-ack exceeds bytes sent")

// AckTracker implements the DCP producer side of buffer-ack flow control
// (§6): the connection may not have more than bufferSize bytes of
// unacked DCP traffic outstanding before it must pause producing until a
// DCP_BUFFERACK arrives.
type AckTracker struct {
	bufferSize int
	threshold  int // bytes threshold before requiring an ack, per negotiated DCP_CONTROL connection_buffer_size

	sent   int64
	acked  int64
}

// NewAckTracker creates a tracker for a connection that negotiated the
// given total buffer size and ack threshold fraction (e.g. 0.2 reserves
// 20% of bufferSize, so the producer pauses once 80% of bufferSize is
// sent but not yet acked).
func NewAckTracker(bufferSize int, thresholdFraction float64) *AckTracker {
	th := int(float64(bufferSize) * thresholdFraction)
	if th <= 0 {
		th = bufferSize
	}
	return &AckTracker{bufferSize: bufferSize, threshold: th}
}

// RecordSent folds n bytes of DCP payload just queued for send into the
// outstanding total.
func (a *AckTracker) RecordSent(n int) {
	a.sent += int64(n)
}

// Consume applies a DCP_BUFFERACK's acked-byte count.
func (a *AckTracker) Consume(n uint32) error {
	acked := a.acked + int64(n)
	if acked > a.sent {
		return ErrBufferAckOverflow
	}
	a.acked = acked
	return nil
}

// Outstanding is how many bytes have been sent but not yet acked.
func (a *AckTracker) Outstanding() int64 { return a.sent - a.acked }

// ShouldPause reports whether the producer has outrun its buffer window
// and must stop producing new mutations until an ack narrows the gap
// (§6, §8 "DCP flow control").
func (a *AckTracker) ShouldPause() bool {
	if a.bufferSize <= 0 {
		return false // unbounded/no flow control negotiated
	}
	return a.Outstanding() >= int64(a.bufferSize-a.threshold)
}
