// Package engine defines the storage-engine abstraction as consumed by
// the dispatcher (§3 "Engine handle", §4.3). The concrete engine
// implementation is out of scope (§1); this package is the contract a
// bucket must satisfy plus the status/item vocabulary the contract uses.
package engine

import (
	"context"
	"fmt"
)

// Status is the engine's own result vocabulary, distinct from the wire
// protocol's transport.Status: it carries park/disconnect/fatal outcomes
// that have no single wire representation until remap_error_code (§4.3)
// translates them for a specific connection's negotiated features.
type Status int

const (
	Success Status = iota
	KeyEnoent
	KeyEexists
	E2big
	Einval
	NotStored
	DeltaBadval
	NotMyVbucket
	EWouldBlock
	Tmpfail
	OutOfMemory
	NotSupported
	Disconnect
	UnknownCollection
	Locked
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case KeyEnoent:
		return "KEY_ENOENT"
	case KeyEexists:
		return "KEY_EEXISTS"
	case E2big:
		return "E2BIG"
	case Einval:
		return "EINVAL"
	case NotStored:
		return "NOT_STORED"
	case DeltaBadval:
		return "DELTA_BADVAL"
	case NotMyVbucket:
		return "NOT_MY_VBUCKET"
	case EWouldBlock:
		return "EWOULDBLOCK"
	case Tmpfail:
		return "TMPFAIL"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case NotSupported:
		return "NOT_SUPPORTED"
	case Disconnect:
		return "DISCONNECT"
	case UnknownCollection:
		return "UNKNOWN_COLLECTION"
	case Locked:
		return "LOCKED"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Item is an engine-owned value handle. The engine retains ownership
// until Release is called (via Handle.ItemRelease); the core only reads
// its fields and reserves a reference for the lifetime of a response
// (§4.3 "reserveItem").
type Item struct {
	Key        []byte
	Value      []byte
	Flags      uint32
	Expiration uint32
	Cas        uint64
	Datatype   uint8
	VBucket    uint16
}

// ItemInfo is the subset of Item metadata get_item_info exposes without
// requiring the caller to hold the full Item.
type ItemInfo struct {
	Cas        uint64
	Flags      uint32
	Expiration uint32
	Datatype   uint8
	ValueLen   int
}

// Mutation describes a successful mutating operation's CAS/seqno result,
// returned when MUTATION_EXTRAS was negotiated (§6).
type Mutation struct {
	Cas     uint64
	VBucket uint64 // vbuuid
	SeqNo   uint64
}

// DcpMutation is a single DCP producer event handed to the core's send
// path (§4.3 "DCP handlers").
type DcpMutation struct {
	VBucket        uint16
	Opcode         byte // transport.DCP_MUTATION / DCP_DELETION / DCP_EXPIRATION, kept byte to avoid an import cycle
	Key            []byte
	Value          []byte
	Cas            uint64
	Flags          uint32
	Expiration     uint32
	BySeqno        uint64
	RevSeqno       uint64
	CollectionID   uint32
	CollectionAware bool
	Datatype       uint8
}

// FailoverLogEntry is one (vbuuid, seqno) pair in a vbucket's failover
// history.
type FailoverLogEntry struct {
	VBucketUUID uint64
	SeqNo       uint64
}

// Cookie is the opaque per-command context the engine receives. The core
// owns the concrete type (cookie.Cookie); the engine only ever sees it
// through this narrow interface so engine code cannot reach into
// connection internals.
type Cookie interface {
	// EngineData returns the engine-private slot for multi-step commands
	// (e.g. a flush or get_locked/unlock continuation), previously set
	// by SetEngineData.
	EngineData() interface{}
	SetEngineData(v interface{})
}

// Handle is the capability set a bucket exports (§3 "Engine handle",
// §4.3). Any method may return EWouldBlock to park the caller; the
// engine later wakes the cookie through NotifyIOComplete (out of scope
// implementation-wise — the core only needs the wake contract: a later
// call with the same cookie resumes at Execute).
type Handle interface {
	Get(ctx context.Context, ck Cookie, vbucket uint16, key []byte) (*Item, Status)
	GetLocked(ctx context.Context, ck Cookie, vbucket uint16, key []byte, lockTimeoutSec uint32) (*Item, Status)
	Unlock(ctx context.Context, ck Cookie, vbucket uint16, key []byte, cas uint64) Status
	Store(ctx context.Context, ck Cookie, vbucket uint16, item *Item, casCheck uint64) (Mutation, Status)
	Remove(ctx context.Context, ck Cookie, vbucket uint16, key []byte, casCheck uint64) (Mutation, Status)
	Flush(ctx context.Context, ck Cookie) Status
	GetItemInfo(ctx context.Context, ck Cookie, item *Item) (ItemInfo, Status)
	ItemRelease(item *Item)
	UnknownCommand(ctx context.Context, ck Cookie, opcode uint8, key, extras, value []byte) ([]byte, Status)

	// OnDisconnect notifies the engine that the connection owning ck is
	// tearing down, before the bucket is disassociated from it (§C.2
	// teardown ordering). Bucket-less connections never call this.
	OnDisconnect(ctx context.Context, ck Cookie)

	Dcp() DcpProducer
}

// DcpProducer is the subset of Handle exercised while a connection is in
// ship_log (§4.1 "DCP specifics"). A bucket that doesn't support DCP may
// return a producer whose Step always reports EWouldBlock.
type DcpProducer interface {
	// Open begins a DCP session under the given connection name.
	Open(ctx context.Context, ck Cookie, name string, sequence uint32, consumer bool) Status
	// GetFailoverLog returns the failover history for a vbucket.
	GetFailoverLog(ctx context.Context, ck Cookie, vbucket uint16) ([]FailoverLogEntry, Status)
	// RequestStream begins streaming a vbucket from a snapshot range.
	RequestStream(ctx context.Context, ck Cookie, vbucket uint16, flags uint32,
		vbuuid, startSeq, endSeq, snapStart, snapEnd uint64) Status
	// CloseStream ends a previously requested stream.
	CloseStream(ctx context.Context, ck Cookie, vbucket uint16) Status
	// Step produces the next batch of DCP messages for the write path, or
	// EWouldBlock if nothing is ready yet. Called repeatedly while
	// ship_log holds writability.
	Step(ctx context.Context, ck Cookie, sink DcpSink) Status
}

// DcpSink receives mutations/deletions/expirations/stream-end markers
// produced by Step; conn builds frames from what it's handed and never
// calls back into the engine mid-Step.
type DcpSink interface {
	Mutation(m DcpMutation)
	StreamEnd(vbucket uint16, flags uint32)
}
