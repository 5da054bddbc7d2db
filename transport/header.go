package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderLen is the fixed size of a binary protocol header (§6).
const HeaderLen = 24

// ErrShortHeader is returned by DecodeHeader when fewer than HeaderLen
// bytes are available.
var ErrShortHeader = errors.New("transport: short header")

// ErrBadMagic is returned when a header's magic byte isn't a known
// request/response magic.
var ErrBadMagic = errors.New("transport: invalid magic")

// Header is the 24-byte frame header common to every binary protocol
// request and response. All multi-byte fields are network byte order.
type Header struct {
	Magic     Magic
	Opcode    CommandCode
	KeyLen    uint16
	ExtrasLen uint8
	Datatype  Datatype
	// StatusOrVBucket carries the response Status on a response frame and
	// the vbucket-id on a request frame; use Status()/VBucket() to read it
	// typed.
	StatusOrVBucket uint16
	BodyLen         uint32
	Opaque          uint32
	CAS             uint64
}

// Status interprets StatusOrVBucket as a response status.
func (h Header) Status() Status { return Status(h.StatusOrVBucket) }

// VBucket interprets StatusOrVBucket as a request vbucket id.
func (h Header) VBucket() uint16 { return h.StatusOrVBucket }

// ValueLen is the length of the value section: body minus extras minus key.
func (h Header) ValueLen() int {
	return int(h.BodyLen) - int(h.ExtrasLen) - int(h.KeyLen)
}

// Valid reports the header-level invariant from §6: the value length
// (body minus extras minus key) must not be negative.
func (h Header) Valid() bool {
	if h.Magic != ReqMagic && h.Magic != ResMagic {
		return false
	}
	return h.ValueLen() >= 0
}

// Encode writes the header to a 24-byte buffer. Panics if buf is shorter
// than HeaderLen (a programming error, per §7 "Fatal internal").
func (h Header) Encode(buf []byte) {
	if len(buf) < HeaderLen {
		panic("transport: Encode buffer shorter than HeaderLen")
	}
	buf[0] = byte(h.Magic)
	buf[1] = byte(h.Opcode)
	binary.BigEndian.PutUint16(buf[2:4], h.KeyLen)
	buf[4] = h.ExtrasLen
	buf[5] = byte(h.Datatype)
	binary.BigEndian.PutUint16(buf[6:8], h.StatusOrVBucket)
	binary.BigEndian.PutUint32(buf[8:12], h.BodyLen)
	binary.BigEndian.PutUint32(buf[12:16], h.Opaque)
	binary.BigEndian.PutUint64(buf[16:24], h.CAS)
}

// DecodeHeader parses the first HeaderLen bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, ErrShortHeader
	}
	h := Header{
		Magic:           Magic(buf[0]),
		Opcode:          CommandCode(buf[1]),
		KeyLen:          binary.BigEndian.Uint16(buf[2:4]),
		ExtrasLen:       buf[4],
		Datatype:        Datatype(buf[5]),
		StatusOrVBucket: binary.BigEndian.Uint16(buf[6:8]),
		BodyLen:         binary.BigEndian.Uint32(buf[8:12]),
		Opaque:          binary.BigEndian.Uint32(buf[12:16]),
		CAS:             binary.BigEndian.Uint64(buf[16:24]),
	}
	if h.Magic != ReqMagic && h.Magic != ResMagic {
		return h, fmt.Errorf("%w: 0x%02x", ErrBadMagic, buf[0])
	}
	return h, nil
}
