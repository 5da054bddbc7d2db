package bufferpool

import (
	"testing"

	"github.com/couchbase/mcbpcore/pipe"
)

func TestLoanAllocatesWhenPoolEmpty(t *testing.T) {
	p := New(64)
	pp, res := p.LoanRead(nil)
	if res != Allocated {
		t.Fatalf("LoanRead() result = %v, want Allocated", res)
	}
	if pp == nil {
		t.Fatal("expected non-nil pipe")
	}
}

func TestLoanReturnsExistingUnchanged(t *testing.T) {
	p := New(64)
	existing := pipe.New(16)
	pp, res := p.LoanRead(existing)
	if res != Existing || pp != existing {
		t.Fatalf("LoanRead(existing) = (%v, %v), want (existing, Existing)", pp, res)
	}
}

func TestReturnThenLoanReusesPipe(t *testing.T) {
	p := New(64)
	pp := pipe.New(32)
	p.ReturnRead(pp)
	if !p.HasFreeRead() {
		t.Fatal("expected pool to hold the returned pipe")
	}
	loaned, res := p.LoanRead(nil)
	if res != FromPool || loaned != pp {
		t.Fatalf("LoanRead() = (%v, %v), want (%v, FromPool)", loaned, res, pp)
	}
	if p.HasFreeRead() {
		t.Fatal("pool should be empty after the pipe was loaned out")
	}
}

func TestReturnNonEmptyPipeIsDropped(t *testing.T) {
	p := New(64)
	pp := pipe.New(32)
	pp.Produced(4) // non-empty
	p.ReturnRead(pp)
	if p.HasFreeRead() {
		t.Fatal("a non-empty pipe must not be pooled")
	}
}

func TestReturnWhenPoolAlreadyHoldsOneIsDropped(t *testing.T) {
	p := New(64)
	first := pipe.New(32)
	second := pipe.New(32)
	p.ReturnRead(first)
	p.ReturnRead(second)

	loaned, _ := p.LoanRead(nil)
	if loaned != first {
		t.Fatalf("pool should still hold the first returned pipe, got a different one: %v vs %v", loaned, first)
	}
	if p.HasFreeRead() {
		t.Fatal("pool must hold at most one free read pipe")
	}
}

func TestReadAndWriteSlotsAreIndependent(t *testing.T) {
	p := New(64)
	r := pipe.New(8)
	w := pipe.New(8)
	p.ReturnRead(r)
	p.ReturnWrite(w)
	if !p.HasFreeRead() || !p.HasFreeWrite() {
		t.Fatal("pool must track read and write free pipes independently")
	}
}
