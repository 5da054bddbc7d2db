package dcp

import "fmt"

// SeqOrderState validates that the byseqnos a DCP stream receives for one
// vbucket arrive strictly increasing and within the most recently
// announced snapshot bounds. One instance per (connection, vbucket)
// stream; replace it on stream restart rather than reusing (§6 DCP
// seqno ordering, adapted from the teacher's
// secondary/dcp/transport/seq_order.go, generalized here from a dcp
// consumer's self-check into the producer-side's ship_log guard — ship_log
// logs every seqno it cannot justify against the stream's snapshot
// boundaries; the mutation is still framed and sent).
type SeqOrderState struct {
	snapStart    uint64
	snapEnd      uint64
	snapStarted  bool
	prevSeq      uint64
	prevSeqValid bool
	errCount     int
}

// NewSeqOrderState creates a fresh, unstarted ordering tracker.
func NewSeqOrderState() *SeqOrderState { return &SeqOrderState{} }

// ProcessSnapshot records a new snapshot-marker's [start, end] bounds.
func (s *SeqOrderState) ProcessSnapshot(sseq, eseq uint64) {
	s.snapStart = sseq
	s.snapEnd = eseq
	s.snapStarted = true
}

// ProcessSeqno validates seq against the current snapshot and the
// previously accepted seqno, returning false (and bumping the error
// count) on any violation.
func (s *SeqOrderState) ProcessSeqno(seq uint64) bool {
	if !s.snapStarted {
		s.errCount++
		return false
	}
	if s.prevSeqValid && s.prevSeq >= seq {
		s.errCount++
		return false
	}
	if seq > s.snapEnd || seq < s.snapStart {
		s.errCount++
		return false
	}
	s.prevSeq = seq
	s.prevSeqValid = true
	return true
}

// GetInfo renders the tracker's state for diagnostics/logging.
func (s *SeqOrderState) GetInfo() string {
	return fmt.Sprintf("{snapStart: %v, snapEnd: %v, snapStarted: %v, prevSeq: %v, prevSeqValid: %v, errCount: %v}",
		s.snapStart, s.snapEnd, s.snapStarted, s.prevSeq, s.prevSeqValid, s.errCount)
}

// GetErrCount reports how many ordering violations have been observed.
func (s *SeqOrderState) GetErrCount() int { return s.errCount }
