package conn

import (
	"errors"
	"io"
)

// ErrWouldBlock is returned by a RawWriter when the underlying socket
// cannot accept more bytes right now (the non-blocking-write equivalent
// of EAGAIN).
var ErrWouldBlock = errors.New("conn: write would block")

// RawWriter is the non-blocking scatter-send primitive transmit drives.
// A single WriteSome call must never block; it returns however many bytes
// it managed to accept.
type RawWriter interface {
	WriteSome(p []byte) (int, error)
}

// Result is transmit's tagged outcome (§4.4, design note §9: "tagged
// result values").
type Result int

const (
	Complete Result = iota
	Incomplete
	SoftError
	HardError
)

func (r Result) String() string {
	switch r {
	case Complete:
		return "Complete"
	case Incomplete:
		return "Incomplete"
	case SoftError:
		return "SoftError"
	case HardError:
		return "HardError"
	default:
		return "Result(?)"
	}
}

// Transmit drives msgs[*cur:] through w until either every header is
// fully sent (Complete), the kernel would block mid-header (SoftError),
// or a hard I/O error occurs (HardError). A write that accepts 0 bytes
// without an error is also reported as SoftError. Transmit never returns
// Incomplete.
//
// onPipeConsumed, if non-nil, is called with the number of Pipe-backed
// bytes accepted by w so the caller can advance its write Pipe's read
// cursor (§4.4).
func Transmit(w RawWriter, msgs []MsgHdr, cur *int, onPipeConsumed func(int)) Result {
	for *cur < len(msgs) {
		hdr := &msgs[*cur]
		if len(hdr.Iovs) == 0 {
			*cur++
			continue
		}
		for len(hdr.Iovs) > 0 {
			iov := hdr.Iovs[0]
			n, err := w.WriteSome(iov.Base)
			if n > 0 {
				pb := AdjustMsgHdr(hdr, n)
				if onPipeConsumed != nil && pb > 0 {
					onPipeConsumed(pb)
				}
			}
			if err != nil {
				if errors.Is(err, ErrWouldBlock) {
					return SoftError
				}
				if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF) {
					return HardError
				}
				return HardError
			}
			if n == 0 {
				// No error, no progress: treat as would-block rather than
				// spin (a conforming RawWriter shouldn't do this, but
				// don't loop forever if one does).
				return SoftError
			}
		}
		*cur++
	}
	return Complete
}
