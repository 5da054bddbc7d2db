// Package config provides mcbpcore's key/value configuration map.
//
// Shape of a config key is a sequence of alpha-numeric segments separated
// by '.', e.g. "server.numWorkers". Config maps are immutable; accessor
// methods that "mutate" return a new map (Override, Clone).
package config

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"
)

// Value is a single configuration parameter.
type Value struct {
	Value      interface{}
	Help       string
	DefaultVal interface{}
	Immutable  bool
}

// Int assumes the value is an integer (or a float64 decoded from JSON).
func (cv Value) Int() int {
	switch v := cv.Value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	panic(fmt.Sprintf("config: not an Int(): %#v", cv.Value))
}

// Uint64 assumes the value is an unsigned integer.
func (cv Value) Uint64() uint64 {
	switch v := cv.Value.(type) {
	case uint64:
		return v
	case int:
		return uint64(v)
	case float64:
		return uint64(v)
	}
	panic(fmt.Sprintf("config: not a Uint64(): %#v", cv.Value))
}

// String assumes the value is a string.
func (cv Value) String() string {
	if v, ok := cv.Value.(string); ok {
		return v
	}
	panic(fmt.Sprintf("config: not a String(): %#v", cv.Value))
}

// Bool assumes the value is a bool.
func (cv Value) Bool() bool {
	if v, ok := cv.Value.(bool); ok {
		return v
	}
	panic(fmt.Sprintf("config: not a Bool(): %#v", cv.Value))
}

// Duration interprets the value as milliseconds.
func (cv Value) Duration() time.Duration {
	return time.Duration(cv.Int()) * time.Millisecond
}

// Config is an immutable key/value configuration map.
type Config map[string]Value

// Clone returns a shallow copy safe to mutate independently.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Override layers others on top of c, later entries winning, and returns a
// new Config (c is left untouched).
func (c Config) Override(others ...Config) Config {
	out := c.Clone()
	for _, other := range others {
		for k, v := range other {
			out[k] = v
		}
	}
	return out
}

// SectionConfig returns the subset of keys with the given "prefix." and,
// if trim is true, strips the prefix from the returned keys.
func (c Config) SectionConfig(prefix string, trim bool) Config {
	out := make(Config)
	full := prefix + "."
	for k, v := range c {
		if len(k) > len(full) && k[:len(full)] == full {
			if trim {
				out[k[len(full):]] = v
			} else {
				out[k] = v
			}
		}
	}
	return out
}

// Json renders the config as JSON of key -> value (not the full Value
// struct) for logging/inspection.
func (c Config) Json() []byte {
	m := make(map[string]interface{}, len(c))
	for k, v := range c {
		m[k] = v.Value
	}
	b, _ := json.Marshal(m)
	return b
}

func (c Config) String() string { return string(c.Json()) }

// Holder is a threadsafe, atomically-swappable Config reference, used for
// hot-reloadable settings (e.g. SIGHUP re-read).
type Holder struct {
	ptr unsafe.Pointer
}

// Store atomically replaces the held Config.
func (h *Holder) Store(c Config) {
	atomic.StorePointer(&h.ptr, unsafe.Pointer(&c))
}

// Load atomically returns the held Config.
func (h *Holder) Load() Config {
	p := atomic.LoadPointer(&h.ptr)
	if p == nil {
		return nil
	}
	return *(*Config)(p)
}

// SystemDefault is the default configuration for the core. Every knob the
// reactor, state machine, dispatcher, and DCP layer read is listed here so
// a caller can start from SystemDefault.Clone() and override only what it
// needs.
var SystemDefault = Config{
	"server.numWorkers": Value{
		runtime.GOMAXPROCS(0), "number of reactor worker threads", runtime.GOMAXPROCS(0), false,
	},
	"server.maxReqsPerEvent": Value{
		20, "commands executed per connection before yielding the reactor", 20, false,
	},
	"server.dataBufferSize": Value{
		16 * 1024, "target capacity in bytes of a loaned Pipe", 16 * 1024, false,
	},
	"server.bufferHighWatermark": Value{
		1024 * 1024, "write Pipe size above which the connection is throttled", 1024 * 1024, false,
	},
	"server.pendingIOQueueSize": Value{
		4096, "per-worker pending-io channel capacity", 4096, false,
	},
	"connection.idleTimeout": Value{
		600000, "milliseconds a non-DCP connection may sit idle before closing", 600000, false,
	},
	"dcp.bufferAckThreshold": Value{
		0.2, "fraction of the negotiated DCP buffer that triggers a DCP_BUFFERACK", 0.2, false,
	},
	"dcp.noopIntervalMs": Value{
		20000, "milliseconds between DCP_NOOP keepalives expected from a producer", 20000, false,
	},
}
