package conn

import "unsafe"

// maxIovsPerMsg bounds how many iovecs a single msghdr accumulates before
// addIov opens a new header automatically (§4.4).
const maxIovsPerMsg = 16

// IOVec is one scatter/gather entry in a msghdr's iovec list. FromPipe
// marks whether Base aliases the connection's write Pipe (so transmit can
// advance the Pipe's read cursor as bytes are sent) as opposed to an
// engine-owned reserved item's value (§4.3, §4.4).
type IOVec struct {
	Base     []byte
	FromPipe bool
}

// MsgHdr is one `sendmsg`-equivalent unit: a list of iovecs sent as one
// logical write attempt.
type MsgHdr struct {
	Iovs []IOVec
}

// Bytes returns the total unsent byte count across a MsgHdr's iovecs.
func (m *MsgHdr) Bytes() int {
	n := 0
	for _, iov := range m.Iovs {
		n += len(iov.Base)
	}
	return n
}

// contiguous reports whether b immediately follows a in memory, i.e. a
// and b are adjacent slices of the same backing array. Used by AddIov to
// coalesce adjacent writes into a single iovec instead of growing the
// list unnecessarily.
func contiguous(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	end := uintptr(unsafe.Pointer(&a[len(a)-1])) + 1
	start := uintptr(unsafe.Pointer(&b[0]))
	return end == start
}

// AddMsgHdr appends a new, empty MsgHdr to msgs. If reset is true, msgs
// is cleared first (starting a fresh response, §4.4 "addMsgHdr(reset)").
func AddMsgHdr(msgs []MsgHdr, reset bool) []MsgHdr {
	if reset {
		msgs = msgs[:0]
	}
	return append(msgs, MsgHdr{})
}

// AddIov appends data to the last MsgHdr in msgs (opening one first if
// msgs is empty), coalescing with the previous iovec when they are
// contiguous in memory, and opening a new MsgHdr automatically once the
// current one reaches maxIovsPerMsg (§4.4).
func AddIov(msgs []MsgHdr, data []byte, fromPipe bool) []MsgHdr {
	if len(data) == 0 {
		return msgs
	}
	if len(msgs) == 0 {
		msgs = AddMsgHdr(msgs, false)
	}
	cur := &msgs[len(msgs)-1]
	if len(cur.Iovs) >= maxIovsPerMsg {
		msgs = AddMsgHdr(msgs, false)
		cur = &msgs[len(msgs)-1]
	}
	if n := len(cur.Iovs); n > 0 {
		last := &cur.Iovs[n-1]
		if last.FromPipe == fromPipe && contiguous(last.Base, data) &&
			cap(last.Base)-len(last.Base) >= len(data) {
			last.Base = last.Base[:len(last.Base)+len(data)]
			return msgs
		}
	}
	cur.Iovs = append(cur.Iovs, IOVec{Base: data, FromPipe: fromPipe})
	return msgs
}

// AdjustMsgHdr trims n bytes off the front of hdr's iovec list: fully
// consumed iovecs are dropped, and the iovec straddling the n-th byte has
// its base/length advanced in place. It returns the number of bytes that
// came from Pipe-backed iovecs, so the caller can advance the Pipe's read
// cursor by that amount (§4.4, §8 property 2).
func AdjustMsgHdr(hdr *MsgHdr, n int) (pipeBytes int) {
	for n > 0 && len(hdr.Iovs) > 0 {
		iov := &hdr.Iovs[0]
		if n < len(iov.Base) {
			if iov.FromPipe {
				pipeBytes += n
			}
			iov.Base = iov.Base[n:]
			n = 0
			break
		}
		if iov.FromPipe {
			pipeBytes += len(iov.Base)
		}
		n -= len(iov.Base)
		hdr.Iovs = hdr.Iovs[1:]
	}
	return pipeBytes
}
