package dcp

import (
	"encoding/binary"
	"errors"
)

// ErrCollectionLenWithoutAwareness is the §4.6 open-question-(c) invariant:
// a frame must not carry a non-zero collection-length prefix on a stream
// that never negotiated collection awareness.
var ErrCollectionLenWithoutAwareness = errors.New("dcp: collection-aware key on a non-collection-aware stream")

// EncodeKey renders a DCP mutation/deletion key, prefixing it with its
// uvarint-encoded CollectionID when collectionAware is true (§6 DCP
// collections framing). A non-aware stream must never be asked to encode
// a non-default collection.
func EncodeKey(key []byte, collectionID uint32, collectionAware bool) ([]byte, error) {
	if !collectionAware {
		if collectionID != 0 {
			return nil, ErrCollectionLenWithoutAwareness
		}
		return key, nil
	}
	var idBuf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(idBuf[:], uint64(collectionID))
	out := make([]byte, 0, n+len(key))
	out = append(out, idBuf[:n]...)
	out = append(out, key...)
	return out, nil
}

// DecodeKey splits a collection-aware key back into its collection id and
// the bare key, or is a no-op (collectionID 0) on a non-aware stream.
func DecodeKey(wireKey []byte, collectionAware bool) (collectionID uint32, key []byte, err error) {
	if !collectionAware {
		return 0, wireKey, nil
	}
	id, n := binary.Uvarint(wireKey)
	if n <= 0 {
		return 0, nil, errors.New("dcp: malformed collection-id varint")
	}
	return uint32(id), wireKey[n:], nil
}

// MutationExtras renders the fixed-size extras block DCP_MUTATION and
// DCP_DELETION frames carry: by_seqno(8) | rev_seqno(8) | flags(4) |
// expiration(4) | lock_time(4) | nmeta(2) [| nru(1) for mutation only].
// nmeta is always zero: this server never emits adjacent DCP meta.
func MutationExtras(bySeqno, revSeqno uint64, flags, expiration, lockTime uint32, isMutation bool) []byte {
	size := 30
	if isMutation {
		size = 31
	}
	b := make([]byte, size)
	binary.BigEndian.PutUint64(b[0:8], bySeqno)
	binary.BigEndian.PutUint64(b[8:16], revSeqno)
	binary.BigEndian.PutUint32(b[16:20], flags)
	binary.BigEndian.PutUint32(b[20:24], expiration)
	binary.BigEndian.PutUint32(b[24:28], lockTime)
	// bytes [28:30] are nmeta (always 0); byte [30], if present, is nru.
	return b
}

// SnapshotExtras renders a DCP_SNAPSHOT marker's extras: start_seqno(8) |
// end_seqno(8) | flags(4).
func SnapshotExtras(start, end uint64, flags uint32) []byte {
	b := make([]byte, 20)
	binary.BigEndian.PutUint64(b[0:8], start)
	binary.BigEndian.PutUint64(b[8:16], end)
	binary.BigEndian.PutUint32(b[16:20], flags)
	return b
}
