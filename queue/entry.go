// Package queue implements the corpus layer: queue entries, the base
// queue, feedback queues, and the global queue that composes them under
// a scheduling policy.
package queue

import "sync/atomic"

var nextEntryID uint64

// Entry is one corpus element: a raw input plus its lineage metadata
// Linkage invariants:
//   - if Next() != nil then Next().Prev() == this entry, symmetrically
//     for Prev()
//   - if Parent() != nil then this entry appears in Parent().Children()
//   - the owning-queue back-reference, when non-nil, is the Base that
//     physically contains the entry
type Entry struct {
	id    uint64
	input Input

	next, prev *Entry
	parent     *Entry
	children   []*Entry

	owner    *Base
	Filename string
}

// Input is the minimal contract Entry needs from a raw test case, kept
// narrow so the queue package doesn't need to import the input package.
type Input interface {
	Bytes() []byte
	Len() int
}

// NewEntry constructs a standalone queue entry wrapping in. It is not
// linked into any queue until a Base's Add is called with it, and has no
// parent until the caller sets one via SetParent.
func NewEntry(in Input) *Entry {
	return &Entry{
		id:    atomic.AddUint64(&nextEntryID, 1),
		input: in,
	}
}

// ID is a stable, process-local identifier used only so a pointer-free
// broadcast header (engine.QueueEntryHeader) has something to reference
// in place of a pointer.
func (e *Entry) ID() uint64 {
	if e == nil {
		return 0
	}
	return e.id
}

// Input returns the entry's owned raw input.
func (e *Entry) Input() Input {
	if e == nil {
		return nil
	}
	return e.input
}

// Next returns the next sibling within the owning queue, or nil.
func (e *Entry) Next() *Entry {
	if e == nil {
		return nil
	}
	return e.next
}

// Prev returns the previous sibling within the owning queue, or nil.
func (e *Entry) Prev() *Entry {
	if e == nil {
		return nil
	}
	return e.prev
}

// Parent returns the entry this one was mutated from, or nil if it was
// a seed.
func (e *Entry) Parent() *Entry {
	if e == nil {
		return nil
	}
	return e.parent
}

// Children returns the entries mutated from this one. The returned
// slice is a read-only view; callers must not mutate it.
func (e *Entry) Children() []*Entry {
	if e == nil {
		return nil
	}
	return e.children
}

// OwnerQueue returns the Base that physically contains this entry, or
// nil if it isn't linked into one.
func (e *Entry) OwnerQueue() *Base {
	if e == nil {
		return nil
	}
	return e.owner
}

// SetParent links e as a child of p, appending e to p's children. It is
// the caller's responsibility to call this before e is ever added to a
// queue that other goroutines observe — the core is single-threaded
// cooperative per process.
func (e *Entry) SetParent(p *Entry) {
	if e == nil || p == nil {
		return
	}
	e.parent = p
	p.children = append(p.children, e)
}

// Remove tears the entry down: splices its neighbours together, clears
// its owner/parent/Filename, recursively removes every child, and
// finally drops the owned input. Safe to call whether or not the entry
// is currently linked, and safe to call more than once.
//
// Remove does not touch the owning Base's size or shared-memory mirror:
// the base queue's array only ever grows via Add, and
// the original C queue never reconciled single-entry removal against
// that array either — whole-queue teardown walks the linked list and
// removes each entry this way, rather than compacting the array.
func (e *Entry) Remove() {
	if e == nil {
		return
	}

	if e.next != nil {
		e.next.prev = e.prev
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	e.next = nil
	e.prev = nil
	e.owner = nil
	e.parent = nil
	e.Filename = ""

	children := e.children
	e.children = nil
	for _, c := range children {
		c.Remove()
	}

	e.input = nil
}
