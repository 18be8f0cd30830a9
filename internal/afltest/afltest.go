// Package afltest provides test doubles for the engine collaborator
// interfaces. Adapted from the host module's MockBackend: plain structs
// that implement a plug-in-point interface, with the RNG, mutator and
// broadcast doubles tracking their own calls under a mutex, rather than
// a mocking framework.
package afltest

import (
	"sync"

	"github.com/AFLplusplus/libafl-go/engine"
)

// MockRNG returns Value mod n from every Below call, recording how many
// times it was asked.
type MockRNG struct {
	mu    sync.Mutex
	Value int
	calls int
}

func (r *MockRNG) Below(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if n <= 0 {
		return 0
	}
	return r.Value % n
}

// Calls reports how many times Below was invoked.
func (r *MockRNG) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// MockMutator records every entry it's notified about via
// CustomQueueNewEntry, implementing engine.NewEntryNotifier.
type MockMutator struct {
	mu       sync.Mutex
	Notified []any
}

func (m *MockMutator) CustomQueueNewEntry(entry any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, entry)
}

// Seen returns a snapshot of the entries this mutator has observed.
func (m *MockMutator) Seen() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.Notified))
	copy(out, m.Notified)
	return out
}

// MockStage is a fixed list of mutators implementing engine.Stage.
type MockStage struct {
	mutators []engine.Mutator
}

// NewMockStage builds a MockStage wrapping the given mutators.
func NewMockStage(mutators ...engine.Mutator) MockStage {
	return MockStage{mutators: mutators}
}

func (s MockStage) Mutators() []engine.Mutator { return s.mutators }

// MockDriver is a fixed list of stages implementing engine.FuzzOneDriver.
type MockDriver struct {
	stages []engine.Stage
}

// NewMockDriver builds a MockDriver wrapping the given stages.
func NewMockDriver(stages ...engine.Stage) MockDriver {
	return MockDriver{stages: stages}
}

func (d MockDriver) Stages() []engine.Stage { return d.stages }

// MockBroadcast records every message sent through it, optionally
// failing AllocNext or Send on demand for error-path tests.
type MockBroadcast struct {
	mu       sync.Mutex
	Sent     []engine.Message
	AllocErr error
	SendErr  error
}

func (b *MockBroadcast) AllocNext(tag engine.MessageTag, size int) (engine.Message, error) {
	if b.AllocErr != nil {
		return engine.Message{}, b.AllocErr
	}
	return engine.Message{Tag: tag, Buf: make([]byte, size)}, nil
}

func (b *MockBroadcast) Send(m engine.Message) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, m)
	return nil
}

// Messages returns a snapshot of every message sent so far.
func (b *MockBroadcast) Messages() []engine.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]engine.Message, len(b.Sent))
	copy(out, b.Sent)
	return out
}

// MockEngine is a fully pluggable engine.Engine: every field defaults to
// a usable zero value (ID 0, nil collaborators, all of which the core's
// nil-checked call sites tolerate).
type MockEngine struct {
	IDValue       int
	RNGImpl       engine.RNG
	Driver        engine.FuzzOneDriver
	BroadcastImpl engine.BroadcastClient
}

func (e *MockEngine) ID() int                          { return e.IDValue }
func (e *MockEngine) RNG() engine.RNG                  { return e.RNGImpl }
func (e *MockEngine) FuzzOne() engine.FuzzOneDriver     { return e.Driver }
func (e *MockEngine) Broadcast() engine.BroadcastClient { return e.BroadcastImpl }

var (
	_ engine.Engine           = (*MockEngine)(nil)
	_ engine.RNG              = (*MockRNG)(nil)
	_ engine.NewEntryNotifier = (*MockMutator)(nil)
	_ engine.BroadcastClient  = (*MockBroadcast)(nil)
	_ engine.FuzzOneDriver    = MockDriver{}
	_ engine.Stage            = MockStage{}
)
