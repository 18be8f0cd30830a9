package queue

import (
	"github.com/AFLplusplus/libafl-go/engine"
	"github.com/AFLplusplus/libafl-go/internal/constants"
	"github.com/AFLplusplus/libafl-go/internal/logging"
	"github.com/AFLplusplus/libafl-go/internal/shm"
)

// Base is the corpus layer's growable ordered sequence of entries.
// Entries are appended in array order, and Add keeps the array order
// consistent with the doubly-linked list reachable from QueueBase():
// following Next() i times from QueueBase() yields the entry at array
// index i. Entry.Remove unlinks an entry from the list without removing
// it from the array, so this holds only until an entry is removed.
//
// Not safe for concurrent use from multiple goroutines within one
// process: the core is single-threaded cooperative, and
// cross-process visibility is handled separately by the shared-memory
// mirror and the broadcast notification below.
type Base struct {
	entries []*Entry
	current int

	engine   engine.Engine
	engineID int

	dirPath string
	namesID uint64

	table *shm.Region

	// name labels this queue in exported entry headers. Set by
	// NewFeedbackQueue from its name argument; "" for a bare Base or a
	// Global queue, neither of which carries a name of its own.
	name string
}

// QueueName returns the label this queue stamps into exported entry
// headers.
func (q *Base) QueueName() string {
	if q == nil {
		return ""
	}
	return q.name
}

// NewBase allocates a base queue whose entry table mirror is backed by a
// fresh shared-memory region of tableSize bytes. Failure to acquire that
// region is the only failure mode, surfaced as whatever
// internal/shm.New returns (an aflerr.Alloc error).
func NewBase(tableSize int) (*Base, error) {
	if tableSize <= 0 {
		tableSize = constants.QueueEntryTableSize
	}
	region, err := shm.New(tableSize)
	if err != nil {
		return nil, err
	}
	return &Base{table: region}, nil
}

// QueueBase returns the head of the linked list, i.e. the first entry
// ever added, or nil for an empty queue.
func (q *Base) QueueBase() *Entry {
	if q == nil || len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// Size returns the number of entries currently in the queue.
func (q *Base) Size() int {
	if q == nil {
		return 0
	}
	return len(q.entries)
}

// DirPath returns the directory entries are saved to, or "" if saving to
// files is disabled.
func (q *Base) DirPath() string {
	if q == nil {
		return ""
	}
	return q.dirPath
}

// NamesID returns the counter used to derive on-disk filenames. The queue
// writes no files itself and never advances it, so it stays 0.
func (q *Base) NamesID() uint64 {
	if q == nil {
		return 0
	}
	return q.namesID
}

// SaveToFiles reports whether entries are persisted to disk, which is
// true iff a non-empty directory has been configured via SetDirectory.
func (q *Base) SaveToFiles() bool {
	return q.DirPath() != ""
}

// SetDirectory configures (or, given "", disables) on-disk persistence.
func (q *Base) SetDirectory(path string) {
	if q == nil {
		return
	}
	q.dirPath = path
}

// Engine returns the bound engine collaborator, or nil.
func (q *Base) Engine() engine.Engine {
	if q == nil {
		return nil
	}
	return q.engine
}

// EngineID returns the identifier of the engine this queue considers its
// own, used by GetNextInQueue to distinguish a native poll from a
// foreign peek.
func (q *Base) EngineID() int {
	if q == nil {
		return 0
	}
	return q.engineID
}

// SetEngine binds the queue's owning engine collaborator. When e is
// non-nil its ID is captured as the queue's own engine ID.
func (q *Base) SetEngine(e engine.Engine) {
	if q == nil {
		return
	}
	q.engine = e
	if e != nil {
		q.engineID = e.ID()
	}
}

// Add appends e to the queue. Entries with a nil input are rejected: a
// single Warn is logged and nothing else happens: a no-op, not a panic.
//
// Otherwise, in order:
//  1. every mutator of every stage of the bound engine's fuzz-one driver
//     that implements engine.NewEntryNotifier is notified of e, mirroring
//     the original's custom_queue_new_entry hook;
//  2. e is appended and linked at the tail of the list, and the
//     shared-memory mirror is refreshed at the new entry's index;
//  3. only after that shared-memory write completes, a
//     MessageNewQueueEntry broadcast is sent, so a sibling process that
//     wakes on the message can never observe a table slot that hasn't
//     been written yet.
func (q *Base) Add(e *Entry) {
	if q == nil {
		return
	}
	if e == nil || e.Input() == nil {
		logging.Warn("queue: refusing to add entry with nil input")
		return
	}

	q.notifyMutators(e)

	if n := len(q.entries); n > 0 {
		tail := q.entries[n-1]
		tail.next = e
		e.prev = tail
	}
	e.owner = q
	q.entries = append(q.entries, e)
	q.writeMirror(len(q.entries)-1, e)

	q.broadcastNewEntry(e)
}

func (q *Base) notifyMutators(e *Entry) {
	if q.engine == nil {
		return
	}
	driver := q.engine.FuzzOne()
	if driver == nil {
		return
	}
	for _, stage := range driver.Stages() {
		if stage == nil {
			continue
		}
		for _, m := range stage.Mutators() {
			if notifier, ok := m.(engine.NewEntryNotifier); ok {
				notifier.CustomQueueNewEntry(e)
			}
		}
	}
}

func (q *Base) writeMirror(index int, e *Entry) {
	if q.table == nil {
		return
	}
	bits := q.table.Bytes()
	off := index * entryRecordSize
	if off < 0 || off+entryRecordSize > len(bits) {
		return
	}
	copy(bits[off:off+entryRecordSize], encodeEntryHeader(entryHeader(e, q.name)))
}

func (q *Base) broadcastNewEntry(e *Entry) {
	if q.engine == nil {
		return
	}
	bc := q.engine.Broadcast()
	if bc == nil {
		return
	}
	payload := encodeEntryHeader(entryHeader(e, q.name))
	msg, err := bc.AllocNext(engine.MessageNewQueueEntry, len(payload))
	if err != nil {
		logging.Warn("queue: broadcast alloc failed", "error", err)
		return
	}
	copy(msg.Buf, payload)
	if err := bc.Send(msg); err != nil {
		logging.Warn("queue: broadcast send failed", "error", err)
	}
}

// GetNextInQueue returns the entry the round-robin cursor currently
// points at. An empty queue yields (nil, false).
//
// When engineID matches the queue's own EngineID, the cursor advances
// to the next slot (wrapping around). Any other engineID is treated as
// a foreign peek: the entry is still returned, but the cursor does not
// move, so the owning engine's own rotation is unaffected by a sibling
// glancing at the queue.
func (q *Base) GetNextInQueue(engineID int) (*Entry, bool) {
	if q == nil || len(q.entries) == 0 {
		return nil, false
	}
	e := q.entries[q.current]
	if engineID == q.engineID {
		q.current = (q.current + 1) % len(q.entries)
	}
	return e, true
}

// Close unmaps the shared-memory entry table. It does not remove any
// entry; callers that want full teardown should remove entries from
// QueueBase() first.
func (q *Base) Close() error {
	if q == nil || q.table == nil {
		return nil
	}
	return q.table.Close()
}
