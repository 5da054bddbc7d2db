package dispatch

import (
	"context"
	"encoding/binary"
	"strconv"

	"github.com/couchbase/mcbpcore/conn"
	"github.com/couchbase/mcbpcore/cookie"
	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

// requireEngine fetches the connection's selected bucket engine, failing
// the command with NO_BUCKET equivalent (NotSupported) when none is
// selected yet (§4.2 precondition: SELECT_BUCKET before data commands).
func requireEngine(c *conn.Connection, ck *cookie.Cookie) (engine.Handle, bool) {
	eng := c.CurrentEngine()
	if eng == nil {
		ck.SetErrorContext("no bucket selected")
		buildResponse(c, ck, engine.NotSupported, nil, nil, transport.DatatypeRaw)
		return nil, false
	}
	return eng, true
}

func execGet(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	item, st := eng.Get(ctx, ck, ck.Header.VBucket(), ck.Key())
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	c.ReserveItem(item)
	ck.Cas = item.Cas
	extras := make([]byte, 4)
	binary.BigEndian.PutUint32(extras, item.Flags)
	buildResponse(c, ck, engine.Success, extras, item.Value, transport.Datatype(item.Datatype))
}

type storeMode int

const (
	storeSet storeMode = iota
	storeAdd
	storeReplace
	storeAppend
	storePrepend
)

// execStore wires SET/ADD/REPLACE/APPEND/PREPEND to engine.Store,
// pre-reading the existing value for the two concatenating modes. Each
// call independently sets ck.SetAsync() and returns on EWouldBlock; a
// resumed Execute re-enters this same function and repeats the Get, so
// no continuation needs to survive the park (§4.3 "multi-step command
// context" is available via ck.EngineData for executors that do need
// one, e.g. a future multi-key op, but plain re-entry suffices here).
func execStore(mode storeMode) Executor {
	return func(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
		eng, ok := requireEngine(c, ck)
		if !ok {
			return
		}
		key := ck.Key()
		value := ck.Value()
		var flags, expiration uint32
		if len(ck.Extras()) >= 8 {
			flags = binary.BigEndian.Uint32(ck.Extras()[0:4])
			expiration = binary.BigEndian.Uint32(ck.Extras()[4:8])
		}
		casCheck := ck.Header.CAS

		if mode == storeAppend || mode == storePrepend {
			existing, st := eng.Get(ctx, ck, ck.Header.VBucket(), key)
			if st == engine.EWouldBlock {
				ck.SetAsync()
				return
			}
			if st != engine.Success {
				buildResponse(c, ck, engine.NotStored, nil, nil, transport.DatatypeRaw)
				return
			}
			if mode == storeAppend {
				value = append(append([]byte{}, existing.Value...), value...)
			} else {
				value = append(append([]byte{}, value...), existing.Value...)
			}
			flags = existing.Flags
			expiration = existing.Expiration
			casCheck = existing.Cas
		}

		item := &engine.Item{
			Key: key, Value: value, Flags: flags, Expiration: expiration,
			Datatype: uint8(ck.Header.Datatype.Sanitize(c.Features)),
			VBucket:  ck.Header.VBucket(),
		}
		switch mode {
		case storeAdd:
			mut, st := eng.Store(ctx, ck, ck.Header.VBucket(), item, 0)
			finishMutation(c, ck, mut, st)
		default: // set, replace, append, prepend all CAS-check against casCheck
			mut, st := eng.Store(ctx, ck, ck.Header.VBucket(), item, casCheck)
			finishMutation(c, ck, mut, st)
		}
	}
}

// finishMutation renders a Store/Remove outcome: a parked EWOULDBLOCK
// just marks the Cookie async, anything else writes the final response
// (carrying MUTATION_EXTRAS when negotiated on success).
func finishMutation(c *conn.Connection, ck *cookie.Cookie, mut engine.Mutation, st engine.Status) {
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	ck.Cas = mut.Cas
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	var extras []byte
	if c.Features.Has(transport.FeatureMutationSeqno) {
		extras = make([]byte, 16)
		binary.BigEndian.PutUint64(extras[0:8], mut.VBucket)
		binary.BigEndian.PutUint64(extras[8:16], mut.SeqNo)
	}
	buildResponse(c, ck, engine.Success, extras, nil, transport.DatatypeRaw)
}

func execDelete(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	mut, st := eng.Remove(ctx, ck, ck.Header.VBucket(), ck.Key(), ck.Header.CAS)
	finishMutation(c, ck, mut, st)
}

// execArith wires INCREMENT/DECREMENT. Extras per §6: delta(8) |
// initial(8) | expiration(4). A missing key with expiration ==
// 0xffffffff fails with KEY_ENOENT; otherwise it is created at initial.
func execArith(increment bool) Executor {
	return func(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
		eng, ok := requireEngine(c, ck)
		if !ok {
			return
		}
		extras := ck.Extras()
		if len(extras) < 20 {
			ck.SetErrorContext("arithmetic command requires 20 bytes of extras")
			buildResponse(c, ck, engine.Einval, nil, nil, transport.DatatypeRaw)
			return
		}
		delta := binary.BigEndian.Uint64(extras[0:8])
		initial := binary.BigEndian.Uint64(extras[8:16])
		expiration := binary.BigEndian.Uint32(extras[16:20])

		key := ck.Key()
		existing, st := eng.Get(ctx, ck, ck.Header.VBucket(), key)
		if st == engine.EWouldBlock {
			ck.SetAsync()
			return
		}
		var value uint64
		var casCheck uint64
		if st == engine.KeyEnoent {
			if expiration == 0xffffffff {
				buildResponse(c, ck, engine.KeyEnoent, nil, nil, transport.DatatypeRaw)
				return
			}
			value = initial
		} else if st != engine.Success {
			buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
			return
		} else {
			parsed, perr := strconv.ParseUint(string(existing.Value), 10, 64)
			if perr != nil {
				ck.SetErrorContext("existing value is not numeric")
				buildResponse(c, ck, engine.DeltaBadval, nil, nil, transport.DatatypeRaw)
				return
			}
			if increment {
				value = parsed + delta
			} else if delta > parsed {
				value = 0
			} else {
				value = parsed - delta
			}
			casCheck = existing.Cas
		}

		item := &engine.Item{
			Key: key, Value: []byte(strconv.FormatUint(value, 10)),
			Expiration: expiration, VBucket: ck.Header.VBucket(),
		}
		mut, st := eng.Store(ctx, ck, ck.Header.VBucket(), item, casCheck)
		if st == engine.EWouldBlock {
			ck.SetAsync()
			return
		}
		if st != engine.Success {
			buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
			return
		}
		ck.Cas = mut.Cas
		resp := make([]byte, 8)
		binary.BigEndian.PutUint64(resp, value)
		buildResponse(c, ck, engine.Success, nil, resp, transport.DatatypeRaw)
	}
}

func execFlush(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	st := eng.Flush(ctx, ck)
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
}

func execGetLocked(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	var lockTimeout uint32 = 15
	if len(ck.Extras()) >= 4 {
		lockTimeout = binary.BigEndian.Uint32(ck.Extras()[0:4])
	}
	item, st := eng.GetLocked(ctx, ck, ck.Header.VBucket(), ck.Key(), lockTimeout)
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	c.ReserveItem(item)
	ck.Cas = item.Cas
	extras := make([]byte, 4)
	binary.BigEndian.PutUint32(extras, item.Flags)
	buildResponse(c, ck, engine.Success, extras, item.Value, transport.Datatype(item.Datatype))
}

func execUnlock(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	st := eng.Unlock(ctx, ck, ck.Header.VBucket(), ck.Key(), ck.Header.CAS)
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
}

// execHello negotiates §6 HELLO features: the body is a sequence of
// big-endian uint16 feature codes, echoed back filtered to the subset
// this server supports.
func execHello(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	value := ck.Value()
	requested := make([]transport.Feature, 0, len(value)/2)
	for i := 0; i+1 < len(value); i += 2 {
		requested = append(requested, transport.Feature(binary.BigEndian.Uint16(value[i:i+2])))
	}
	c.Features = transport.NewFeatureSet(requested)

	enabled := c.Features.Enabled()
	resp := make([]byte, len(enabled)*2)
	for i, f := range enabled {
		binary.BigEndian.PutUint16(resp[i*2:i*2+2], uint16(f))
	}
	buildResponse(c, ck, engine.Success, nil, resp, transport.DatatypeRaw)
}

// execSelectBucket looks up the named bucket via the worker's bucket
// registry and rebinds the connection to it (§4.2). Bucket lookup itself
// is out of this server core's scope (§1); SelectBucket delegates to
// whatever BucketLocator the cmd/ wiring installed on the connection's
// worker.
func execSelectBucket(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	locator, ok := c.Worker.(BucketLocator)
	if !ok {
		buildResponse(c, ck, engine.NotSupported, nil, nil, transport.DatatypeRaw)
		return
	}
	idx, h, st := locator.SelectBucket(string(ck.Key()))
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	c.SetBucket(idx, h)
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

// BucketLocator is the capability a worker exposes to resolve SELECT_BUCKET
// by name; concrete bucket management is out of scope (§1) but the core
// still needs somewhere to ask.
type BucketLocator interface {
	SelectBucket(name string) (index int, h engine.Handle, st engine.Status)
}

func execStat(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	// A terminating, key-less STAT response; concrete stat groups are
	// out of scope (§1 Non-goals), but the empty-key terminator keeps
	// clients that iterate stats until an empty-key response arrives from
	// hanging.
	buildResponse(c, ck, engine.Success, nil, nil, transport.DatatypeRaw)
}

func execObserve(ctx context.Context, c *conn.Connection, ck *cookie.Cookie) {
	eng, ok := requireEngine(c, ck)
	if !ok {
		return
	}
	info, st := eng.GetItemInfo(ctx, ck, &engine.Item{Key: ck.Key(), VBucket: ck.Header.VBucket()})
	if st == engine.EWouldBlock {
		ck.SetAsync()
		return
	}
	if st != engine.Success {
		buildResponse(c, ck, st, nil, nil, transport.DatatypeRaw)
		return
	}
	resp := make([]byte, 8)
	binary.BigEndian.PutUint64(resp, info.Cas)
	buildResponse(c, ck, engine.Success, nil, resp, transport.DatatypeRaw)
}
