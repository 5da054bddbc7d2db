// Package bufferpool implements the per-worker free list that loans Pipes
// to connections on demand and reclaims empty ones (§3 "BufferPool", §4.6
// "Buffer loan").
package bufferpool

import "github.com/couchbase/mcbpcore/pipe"

// LoanResult distinguishes a freshly allocated Pipe from one that was
// already present on the connection, per S6 "loan reports Existing to
// avoid double-accounting".
type LoanResult int

const (
	Allocated LoanResult = iota
	FromPool
	Existing
)

// Pool holds at most one free read Pipe and one free write Pipe, per
// worker, at a fixed target capacity.
type Pool struct {
	targetCap int
	freeRead  *pipe.Pipe
	freeWrite *pipe.Pipe
}

// New creates a Pool that allocates Pipes of targetCap bytes when its free
// list is empty.
func New(targetCap int) *Pool {
	return &Pool{targetCap: targetCap}
}

// LoanRead returns existing if non-nil unchanged (Existing), otherwise
// hands over the pool's free read Pipe (FromPool) or allocates a new one
// (Allocated).
func (p *Pool) LoanRead(existing *pipe.Pipe) (*pipe.Pipe, LoanResult) {
	return p.loan(existing, &p.freeRead)
}

// LoanWrite is LoanRead's write-side counterpart.
func (p *Pool) LoanWrite(existing *pipe.Pipe) (*pipe.Pipe, LoanResult) {
	return p.loan(existing, &p.freeWrite)
}

func (p *Pool) loan(existing *pipe.Pipe, slot **pipe.Pipe) (*pipe.Pipe, LoanResult) {
	if existing != nil {
		return existing, Existing
	}
	if *slot != nil {
		pp := *slot
		*slot = nil
		return pp, FromPool
	}
	return pipe.New(p.targetCap), Allocated
}

// ReturnRead moves pp into the pool's read slot if the slot is free and pp
// is empty; otherwise pp is dropped (garbage collected).
func (p *Pool) ReturnRead(pp *pipe.Pipe) {
	p.ret(pp, &p.freeRead)
}

// ReturnWrite is ReturnRead's write-side counterpart.
func (p *Pool) ReturnWrite(pp *pipe.Pipe) {
	p.ret(pp, &p.freeWrite)
}

func (p *Pool) ret(pp *pipe.Pipe, slot **pipe.Pipe) {
	if pp == nil || !pp.Empty() {
		return
	}
	if *slot == nil {
		*slot = pp
	}
	// else: dropped, pool already holds a free Pipe of this kind.
}

// HasFreeRead reports whether the pool currently holds a free read Pipe
// (used by tests asserting the at-most-one invariant, §8 property 5).
func (p *Pool) HasFreeRead() bool { return p.freeRead != nil }

// HasFreeWrite reports whether the pool currently holds a free write Pipe.
func (p *Pool) HasFreeWrite() bool { return p.freeWrite != nil }
