package dcp

import "testing"

func TestAckTrackerPausesPastThreshold(t *testing.T) {
	a := NewAckTracker(1000, 0.2)
	a.RecordSent(750)
	if a.ShouldPause() {
		t.Fatalf("should not pause at 750/1000 with 20%% threshold")
	}
	a.RecordSent(100)
	if !a.ShouldPause() {
		t.Fatalf("should pause at 850/1000 with 20%% threshold (pause at >=800)")
	}
}

func TestAckTrackerConsumeNarrowsWindow(t *testing.T) {
	a := NewAckTracker(1000, 0.2)
	a.RecordSent(900)
	if err := a.Consume(500); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if a.Outstanding() != 400 {
		t.Fatalf("Outstanding = %d, want 400", a.Outstanding())
	}
	if a.ShouldPause() {
		t.Fatalf("should not pause once acked narrows the window below threshold")
	}
}

func TestAckTrackerOverflowRejected(t *testing.T) {
	a := NewAckTracker(1000, 0.2)
	a.RecordSent(100)
	if err := a.Consume(200); err == nil {
		t.Fatalf("expected overflow error acking more than was sent")
	}
}

func TestSeqOrderRejectsOutOfOrder(t *testing.T) {
	s := NewSeqOrderState()
	s.ProcessSnapshot(1, 10)
	if !s.ProcessSeqno(5) {
		t.Fatalf("5 should be accepted within [1,10]")
	}
	if s.ProcessSeqno(3) {
		t.Fatalf("3 should be rejected: not increasing past 5")
	}
	if s.GetErrCount() != 1 {
		t.Fatalf("errCount = %d, want 1", s.GetErrCount())
	}
}

func TestSeqOrderRejectsOutsideSnapshot(t *testing.T) {
	s := NewSeqOrderState()
	s.ProcessSnapshot(1, 10)
	if s.ProcessSeqno(11) {
		t.Fatalf("11 should be rejected: outside snapshot [1,10]")
	}
}

func TestSeqOrderRejectsBeforeAnySnapshot(t *testing.T) {
	s := NewSeqOrderState()
	if s.ProcessSeqno(1) {
		t.Fatalf("seqno before any snapshot marker must be rejected")
	}
}

func TestCollectionKeyRoundTrip(t *testing.T) {
	wire, err := EncodeKey([]byte("mykey"), 9, true)
	if err != nil {
		t.Fatalf("EncodeKey: %v", err)
	}
	id, key, err := DecodeKey(wire, true)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	if id != 9 || string(key) != "mykey" {
		t.Fatalf("DecodeKey = (%d, %q), want (9, mykey)", id, key)
	}
}

func TestCollectionKeyRejectsNonZeroWithoutAwareness(t *testing.T) {
	if _, err := EncodeKey([]byte("k"), 3, false); err != ErrCollectionLenWithoutAwareness {
		t.Fatalf("expected ErrCollectionLenWithoutAwareness, got %v", err)
	}
}

func TestCollectionKeyPassthroughWithoutAwareness(t *testing.T) {
	wire, err := EncodeKey([]byte("plain"), 0, false)
	if err != nil {
		t.Fatalf("EncodeKey: %v", err)
	}
	if string(wire) != "plain" {
		t.Fatalf("EncodeKey passthrough = %q, want plain", wire)
	}
}
