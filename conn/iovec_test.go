package conn

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

var errConnReset = errors.New("connection reset by peer")

func TestAddIovCoalescesContiguousSlices(t *testing.T) {
	backing := []byte("hello world")
	var msgs []MsgHdr
	msgs = AddIov(msgs, backing[0:5], true)
	msgs = AddIov(msgs, backing[5:11], true)

	if len(msgs) != 1 || len(msgs[0].Iovs) != 1 {
		t.Fatalf("expected coalesced single iovec, got %+v", msgs)
	}
	if string(msgs[0].Iovs[0].Base) != "hello world" {
		t.Fatalf("coalesced iovec = %q", msgs[0].Iovs[0].Base)
	}
}

func TestAddIovDoesNotCoalesceDisjointSlices(t *testing.T) {
	var msgs []MsgHdr
	msgs = AddIov(msgs, []byte("abc"), false)
	msgs = AddIov(msgs, []byte("xyz"), false)
	if len(msgs[0].Iovs) != 2 {
		t.Fatalf("expected two distinct iovecs, got %d", len(msgs[0].Iovs))
	}
}

func TestAddIovOpensNewHeaderPastCapacity(t *testing.T) {
	var msgs []MsgHdr
	for i := 0; i < maxIovsPerMsg+1; i++ {
		b := []byte{byte(i)}
		msgs = AddIov(msgs, b, false)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected a second header once capacity exceeded, got %d headers", len(msgs))
	}
}

// flatten concatenates every iovec's bytes across every header.
func flatten(msgs []MsgHdr) []byte {
	var out []byte
	for _, m := range msgs {
		for _, iov := range m.Iovs {
			out = append(out, iov.Base...)
		}
	}
	return out
}

// TestAdjustMsgHdrPartialSendCorrectness is §8 property 2: for any iovec
// list and any 0 <= k <= total, applying AdjustMsgHdr(L, k) yields a list
// whose concatenation equals L with its first k bytes removed.
func TestAdjustMsgHdrPartialSendCorrectness(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		nIovs := 1 + rnd.Intn(6)
		var full []byte
		hdr := MsgHdr{}
		for i := 0; i < nIovs; i++ {
			n := rnd.Intn(9)
			b := make([]byte, n)
			rnd.Read(b)
			full = append(full, b...)
			hdr.Iovs = append(hdr.Iovs, IOVec{Base: b, FromPipe: i%2 == 0})
		}
		total := len(full)
		k := rnd.Intn(total + 1)

		cp := MsgHdr{Iovs: append([]IOVec(nil), hdr.Iovs...)}
		AdjustMsgHdr(&cp, k)
		got := flatten([]MsgHdr{cp})
		want := full[k:]
		if !bytes.Equal(got, want) {
			t.Fatalf("trial %d: AdjustMsgHdr(%v, %d) = %v, want %v", trial, full, k, got, want)
		}
	}
}

func TestAdjustMsgHdrReportsPipeBytes(t *testing.T) {
	hdr := MsgHdr{Iovs: []IOVec{
		{Base: []byte("abcd"), FromPipe: true},
		{Base: []byte("wxyz"), FromPipe: false},
	}}
	pb := AdjustMsgHdr(&hdr, 6)
	if pb != 4 {
		t.Fatalf("pipeBytes = %d, want 4 (all of the pipe-backed iovec)", pb)
	}
	if string(hdr.Iovs[0].Base) != "yz" {
		t.Fatalf("remaining iovec = %q, want \"yz\"", hdr.Iovs[0].Base)
	}
}

type fakeWriter struct {
	chunks []int // bytes accepted per call; a 0 with no error means block
	block  bool
	hard   error
	calls  int
}

func (f *fakeWriter) WriteSome(p []byte) (int, error) {
	if f.calls >= len(f.chunks) {
		if f.hard != nil {
			return 0, f.hard
		}
		return 0, ErrWouldBlock
	}
	n := f.chunks[f.calls]
	f.calls++
	if n > len(p) {
		n = len(p)
	}
	return n, nil
}

func TestTransmitCompleteAcrossMultipleHeaders(t *testing.T) {
	var msgs []MsgHdr
	msgs = AddIov(msgs, []byte("aaaa"), true)
	msgs = AddMsgHdr(msgs, false)
	msgs = AddIov(msgs, []byte("bbbb"), true)

	w := &fakeWriter{chunks: []int{4, 4}}
	cur := 0
	var consumed int
	res := Transmit(w, msgs, &cur, func(n int) { consumed += n })
	if res != Complete {
		t.Fatalf("Transmit() = %v, want Complete", res)
	}
	if consumed != 8 {
		t.Fatalf("consumed = %d, want 8", consumed)
	}
}

func TestTransmitSoftErrorOnPartialSend(t *testing.T) {
	var msgs []MsgHdr
	msgs = AddIov(msgs, []byte("abcdefgh"), true)
	w := &fakeWriter{chunks: []int{3}} // 3 bytes then would-block
	cur := 0
	res := Transmit(w, msgs, &cur, nil)
	if res != SoftError {
		t.Fatalf("Transmit() = %v, want SoftError", res)
	}
	if string(msgs[0].Iovs[0].Base) != "defgh" {
		t.Fatalf("remaining iovec = %q", msgs[0].Iovs[0].Base)
	}
}

func TestTransmitHardErrorOnIOFailure(t *testing.T) {
	var msgs []MsgHdr
	msgs = AddIov(msgs, []byte("abcd"), true)
	w := &fakeWriter{chunks: nil, hard: errConnReset}
	cur := 0
	res := Transmit(w, msgs, &cur, nil)
	if res != HardError {
		t.Fatalf("Transmit() = %v, want HardError", res)
	}
}
