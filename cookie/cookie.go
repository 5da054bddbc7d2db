// Package cookie implements the per-in-flight-command context passed to
// the engine (§3 "Cookie").
package cookie

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

// AsyncStatus tracks whether a command has parked on the engine.
type AsyncStatus int

const (
	// StatusIdle is the default: no outstanding engine call.
	StatusIdle AsyncStatus = iota
	// StatusWouldBlock means the engine returned EWOULDBLOCK and the
	// executor unregistered the connection; a later NotifyIOComplete
	// moves this back to StatusIdle (or StatusWoken) and re-enters
	// Execute.
	StatusWouldBlock
	// StatusWoken means the engine has notified completion with a
	// concrete status, which the dispatcher must consume before
	// re-invoking the engine (§4.3 "reads the Cookie's async status
	// first").
	StatusWoken
)

// Cookie is the per-command context; a Connection holds exactly one,
// reused for each request, including under unordered execution (§4.1/§5).
type Cookie struct {
	// Header and Body are views over the request bytes in the owning
	// connection's read Pipe. They are valid only until the next
	// EnsureCapacity call on that Pipe relocates the backing array.
	Header transport.Header
	Body   []byte // extras || key || value, per §6

	// Cas is the CAS value attached to this command's response.
	Cas uint64

	// errorContext/eventID back the JSON error envelope of §6.
	errorContext string
	eventID      string

	async        AsyncStatus
	asyncResult  engine.Status
	engineData   interface{}

	// Response is the dynamic response buffer, owned by the Cookie until
	// it is pushed into the connection's send path.
	Response []byte

	// Unordered marks a Cookie created while UnorderedExecution was
	// negotiated; such Cookies may complete out of order but still queue
	// their response in arrival order (§5, Open Question (b)).
	Unordered bool
}

// Reset clears per-command state so the Cookie can be reused for the next
// frame on the same connection slot (§3 "reset when a new command
// starts").
func (c *Cookie) Reset() {
	c.Header = transport.Header{}
	c.Body = nil
	c.Cas = 0
	c.errorContext = ""
	c.eventID = ""
	c.async = StatusIdle
	c.asyncResult = engine.Success
	c.engineData = nil
	c.Response = nil
	c.Unordered = false
}

// Key returns the key slice within Body.
func (c *Cookie) Key() []byte {
	return c.Body[c.Header.ExtrasLen : int(c.Header.ExtrasLen)+int(c.Header.KeyLen)]
}

// Extras returns the extras slice within Body.
func (c *Cookie) Extras() []byte {
	return c.Body[:c.Header.ExtrasLen]
}

// Value returns the value slice within Body.
func (c *Cookie) Value() []byte {
	return c.Body[int(c.Header.ExtrasLen)+int(c.Header.KeyLen):]
}

// SetErrorContext records a human-readable error context string; a fresh
// event identifier is generated the first time this is called for a
// command so repeated failures of the same command share one ref.
func (c *Cookie) SetErrorContext(msg string) {
	c.errorContext = msg
	if c.eventID == "" {
		c.eventID = uuid.NewString()
	}
}

// ErrorContext returns the recorded error context, if any.
func (c *Cookie) ErrorContext() string { return c.errorContext }

// EventID returns the recorded error event identifier, if any.
func (c *Cookie) EventID() string { return c.eventID }

type errorEnvelope struct {
	Error struct {
		Context string `json:"context,omitempty"`
		Ref     string `json:"ref,omitempty"`
	} `json:"error"`
}

// ErrorJSON renders the §6 error envelope. Returns nil when there is no
// context or event id to report (xerror-disabled or a plain-status
// response), matching §8 property 8.
func (c *Cookie) ErrorJSON() []byte {
	if c.errorContext == "" && c.eventID == "" {
		return nil
	}
	var env errorEnvelope
	env.Error.Context = c.errorContext
	env.Error.Ref = c.eventID
	b, err := json.Marshal(env)
	if err != nil {
		return nil
	}
	return b
}

// SetAsync parks the command with EWOULDBLOCK (§3 "async status").
func (c *Cookie) SetAsync() { c.async = StatusWouldBlock }

// IsAsync reports whether the command is currently parked.
func (c *Cookie) IsAsync() bool { return c.async == StatusWouldBlock }

// NotifyIOComplete is the engine's wake call: it records the completion
// status and flips the Cookie to Woken so the dispatcher's next Execute
// short-circuits straight to handling that status (§4.3).
func (c *Cookie) NotifyIOComplete(status engine.Status) {
	c.asyncResult = status
	c.async = StatusWoken
}

// ConsumeWoken reports whether the Cookie was woken since the last Reset
// and, if so, returns the status the engine woke it with and clears the
// woken flag so a subsequent Execute invokes the engine normally.
func (c *Cookie) ConsumeWoken() (engine.Status, bool) {
	if c.async != StatusWoken {
		return engine.Success, false
	}
	c.async = StatusIdle
	return c.asyncResult, true
}

// EngineData implements engine.Cookie.
func (c *Cookie) EngineData() interface{} { return c.engineData }

// SetEngineData implements engine.Cookie.
func (c *Cookie) SetEngineData(v interface{}) { c.engineData = v }
