package cookie

import (
	"encoding/json"
	"testing"

	"github.com/couchbase/mcbpcore/engine"
	"github.com/couchbase/mcbpcore/transport"
)

func TestKeyExtrasValueSlicing(t *testing.T) {
	c := &Cookie{
		Header: transport.Header{ExtrasLen: 4, KeyLen: 3},
		Body:   []byte{1, 2, 3, 4, 'a', 'b', 'c', 'x', 'y', 'z'},
	}
	if string(c.Extras()) != "\x01\x02\x03\x04" {
		t.Fatalf("Extras() = %v", c.Extras())
	}
	if string(c.Key()) != "abc" {
		t.Fatalf("Key() = %q, want abc", c.Key())
	}
	if string(c.Value()) != "xyz" {
		t.Fatalf("Value() = %q, want xyz", c.Value())
	}
}

func TestErrorJSONEmptyWhenNoContext(t *testing.T) {
	c := &Cookie{}
	if got := c.ErrorJSON(); got != nil {
		t.Fatalf("ErrorJSON() = %s, want nil", got)
	}
}

func TestErrorJSONShape(t *testing.T) {
	c := &Cookie{}
	c.SetErrorContext("key too large")

	raw := c.ErrorJSON()
	if raw == nil {
		t.Fatal("ErrorJSON() = nil, want envelope")
	}
	var decoded struct {
		Error struct {
			Context string `json:"context"`
			Ref     string `json:"ref"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Error.Context != "key too large" {
		t.Fatalf("context = %q", decoded.Error.Context)
	}
	if decoded.Error.Ref == "" {
		t.Fatal("expected a generated ref uuid")
	}
}

func TestSetErrorContextReusesEventID(t *testing.T) {
	c := &Cookie{}
	c.SetErrorContext("first")
	ref1 := c.EventID()
	c.SetErrorContext("second")
	if c.EventID() != ref1 {
		t.Fatalf("event id changed across calls: %q -> %q", ref1, c.EventID())
	}
}

func TestResetClearsErrorState(t *testing.T) {
	c := &Cookie{}
	c.SetErrorContext("boom")
	c.SetAsync()
	c.Cas = 42
	c.Reset()
	if c.ErrorJSON() != nil || c.IsAsync() || c.Cas != 0 {
		t.Fatal("Reset() left stale state")
	}
}

func TestNotifyIOCompleteThenConsumeWoken(t *testing.T) {
	c := &Cookie{}
	c.SetAsync()
	if !c.IsAsync() {
		t.Fatal("expected IsAsync() after SetAsync()")
	}
	c.NotifyIOComplete(engine.KeyEnoent)

	status, woken := c.ConsumeWoken()
	if !woken || status != engine.KeyEnoent {
		t.Fatalf("ConsumeWoken() = (%v, %v), want (KeyEnoent, true)", status, woken)
	}
	// Second call must not re-report woken: only one wake is consumed.
	if _, woken := c.ConsumeWoken(); woken {
		t.Fatal("ConsumeWoken() reported woken twice")
	}
}
