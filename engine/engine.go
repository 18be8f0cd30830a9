// Package engine declares the interfaces the core treats as an opaque,
// externally-supplied collaborator. The core never introspects an Engine beyond
// these methods: it reaches the RNG for scheduling, the fuzz-one driver
// for the new-entry mutator hook, and the broadcast client for the
// new-entry message. Everything else about an engine — its CLI, its
// config, its choice of mutators — is out of scope here.
package engine

// Engine is the back-reference queues and feedbacks hold.
type Engine interface {
	// ID is the engine's identifier, used to distinguish a queue's
	// owning engine from a foreign peer during round-robin rotation.
	ID() int
	RNG() RNG
	FuzzOne() FuzzOneDriver
	Broadcast() BroadcastClient
}

// RNG is the minimal random source the default global-queue scheduler
// needs.
type RNG interface {
	// Below returns a value in [0, n).
	Below(n int) int
}

// FuzzOneDriver exposes the stages a base queue's Add fans the
// new-entry notification out to.
type FuzzOneDriver interface {
	Stages() []Stage
}

// Stage exposes the mutators within one fuzz_one stage.
type Stage interface {
	Mutators() []Mutator
}

// Mutator is deliberately an empty interface: the core accepts any
// plugin-defined mutator type and only cares whether it happens to
// implement NewEntryNotifier, the same way the original C code checked
// a vtable slot for nil before calling through it.
type Mutator interface{}

// NewEntryNotifier is the optional capability a Mutator may implement to
// be notified when a new queue entry is about to be added, mirroring the
// original's custom_queue_new_entry hook.
type NewEntryNotifier interface {
	CustomQueueNewEntry(entry any)
}

// BroadcastClient is the cross-process message channel a queue uses to
// announce new entries to sibling fuzzer processes.
type BroadcastClient interface {
	AllocNext(tag MessageTag, size int) (Message, error)
	Send(Message) error
}

// MessageTag identifies a broadcast message's payload shape.
type MessageTag uint32

// MessageNewQueueEntry tags a broadcast message carrying a
// QueueEntryHeader, sent after a base queue appends a new entry.
const MessageNewQueueEntry MessageTag = 1

// Message is one broadcast message.
type Message struct {
	Tag MessageTag
	Buf []byte
}

// QueueEntryHeader is the stable, pointer-free on-wire representation of
// a queue entry broadcast to sibling processes. It deliberately excludes
// linkage fields (next/prev/parent/children/owner): those are only
// meaningful within the originating process's address space, so peers
// must treat them as opaque and rely only on these flat fields.
type QueueEntryHeader struct {
	ID            uint64
	ParentID      uint64
	HasParent     bool
	InputLen      uint32
	ChildrenCount uint32
	Filename      string
	QueueName     string
}
