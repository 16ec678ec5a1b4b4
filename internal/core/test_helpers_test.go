package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"roomcast/internal/proto"
)

// fakeConn records everything sent to it and can be flipped into a failing
// state to simulate a dead peer.
type fakeConn struct {
	id string

	mu   sync.Mutex
	sent [][]byte
	fail bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("peer gone")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.sent = append(f.sent, buf)
	return nil
}

func (f *fakeConn) setFailing() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = true
}

// envelopes decodes every frame the conn received so far.
func (f *fakeConn) envelopes(t *testing.T) []proto.Outbound {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]proto.Outbound, 0, len(f.sent))
	for _, frame := range f.sent {
		var env proto.Outbound
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("received undecodable frame %q: %v", frame, err)
		}
		out = append(out, env)
	}
	return out
}

// lastEnvelope returns the most recent frame the conn received.
func (f *fakeConn) lastEnvelope(t *testing.T) proto.Outbound {
	t.Helper()

	envs := f.envelopes(t)
	if len(envs) == 0 {
		t.Fatal("no envelopes received")
	}
	return envs[len(envs)-1]
}

// countByType tallies received envelopes per type discriminant.
func (f *fakeConn) countByType(t *testing.T) map[string]int {
	t.Helper()

	counts := make(map[string]int)
	for _, env := range f.envelopes(t) {
		counts[env.Type]++
	}
	return counts
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
