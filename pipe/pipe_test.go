package pipe

import "testing"

func TestProduceConsumeRoundTrip(t *testing.T) {
	p := New(8)
	n := copy(p.WData(), []byte("hello"))
	p.Produced(n)

	if got := string(p.RData()); got != "hello" {
		t.Fatalf("RData() = %q, want %q", got, "hello")
	}
	if p.RSize() != 5 {
		t.Fatalf("RSize() = %d, want 5", p.RSize())
	}

	p.Consumed(5)
	if !p.Empty() {
		t.Fatalf("expected Empty() after consuming all bytes")
	}
}

func TestEnsureCapacityGrows(t *testing.T) {
	p := New(4)
	if err := p.EnsureCapacity(100); err != nil {
		t.Fatalf("EnsureCapacity: %v", err)
	}
	if len(p.WData()) < 100 {
		t.Fatalf("WData() len = %d, want >= 100", len(p.WData()))
	}
}

func TestEnsureCapacityCompactsBeforeGrowing(t *testing.T) {
	p := New(16)
	p.Produced(10)
	p.Consumed(8) // 2 bytes remain unread, 6 bytes free before growth is needed

	if err := p.EnsureCapacity(14); err != nil {
		t.Fatalf("EnsureCapacity: %v", err)
	}
	if p.Cap() != 16 {
		t.Fatalf("Cap() = %d, want compaction to avoid growth (16)", p.Cap())
	}
}

func TestEnsureCapacityRespectsMaxSize(t *testing.T) {
	p := NewBounded(4, 8)
	if err := p.EnsureCapacity(100); err != ErrTooLarge {
		t.Fatalf("EnsureCapacity: got %v, want ErrTooLarge", err)
	}
}

func TestConsumedResetsCursorsWhenDrained(t *testing.T) {
	p := New(8)
	p.Produced(4)
	p.Consumed(4)
	if p.rpos != 0 || p.wpos != 0 {
		t.Fatalf("expected cursors reset to 0, got rpos=%d wpos=%d", p.rpos, p.wpos)
	}
}

func TestShrinkOnlyWhenEmpty(t *testing.T) {
	p := New(1024)
	p.Produced(10)
	p.Shrink(16)
	if p.Cap() != 1024 {
		t.Fatalf("Shrink should no-op on a non-empty pipe, got cap %d", p.Cap())
	}
	p.Consumed(10)
	p.Shrink(16)
	if p.Cap() != 16 {
		t.Fatalf("Shrink() = %d, want 16", p.Cap())
	}
}
