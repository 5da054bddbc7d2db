package dispatch

import (
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

// isDisconnectStatus reports whether st must never reach the wire at all:
// §7 "Disconnect" says any ENGINE_DISCONNECT after remap forces closing
// with no response. Only engine.Disconnect qualifies — callers check this
// before remapErrorCode, not after.
func isDisconnectStatus(st engine.Status) bool {
	return st == engine.Disconnect
}

// remapErrorCode translates an engine.Status into the wire transport.Status
// a specific connection is allowed to see, downgrading statuses the
// client hasn't negotiated support for to a status it understands (§4.3
// "remap_error_code", SPEC_FULL.md §C.4). A client that never sent HELLO
// NOT_MY_VBUCKET/UNKNOWN_COLLECTION/FeatureCollections, for instance,
// receives EINTERNAL rather than a status it has no decoder for.
// engine.Disconnect never reaches here (see isDisconnectStatus).
func remapErrorCode(st engine.Status, fs transport.FeatureSet) transport.Status {
	switch st {
	case engine.Success:
		return transport.SUCCESS
	case engine.KeyEnoent:
		return transport.KEY_ENOENT
	case engine.KeyEexists:
		return transport.KEY_EEXISTS
	case engine.E2big:
		return transport.E2BIG
	case engine.Einval:
		return transport.EINVAL
	case engine.NotStored:
		return transport.NOT_STORED
	case engine.DeltaBadval:
		return transport.DELTA_BADVAL
	case engine.NotMyVbucket:
		// A pre-collections, pre-CCCP client has no way to act on this;
		// downgrade to a status it can at least log meaningfully.
		if !fs.Has(transport.FeatureClustermapChangeNotification) {
			return transport.EINTERNAL
		}
		return transport.NOT_MY_VBUCKET
	case engine.Tmpfail:
		return transport.TMPFAIL
	case engine.OutOfMemory:
		return transport.ENOMEM
	case engine.NotSupported:
		return transport.NOT_SUPPORTED
	case engine.UnknownCollection:
		if !fs.Has(transport.FeatureCollections) {
			return transport.EINTERNAL
		}
		return transport.UNKNOWN_COLLECTION
	case engine.Locked:
		return transport.LOCKED
	case engine.Failed:
		return transport.EINTERNAL
	default:
		return transport.EINTERNAL
	}
}
