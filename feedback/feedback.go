// Package feedback implements the decision point between a target
// execution and the corpus: does this execution's outcome deserve a
// place in the queue, and if so with what priority.
package feedback

import (
	"github.com/AFLplusplus/libafl-go/queue"
	"github.com/AFLplusplus/libafl-go/stats"
)

// Executor is the consumed collaborator a concrete Feedback inspects to
// decide interestingness — whatever drove the target execution (a map
// channel's trace bits, an exit status, wall-clock timing, ...). The
// core places no constraints on it beyond passing it straight through to
// IsInteresting: what an executor exposes is entirely up to the concrete
// feedback implementation.
type Executor interface{}

// Feedback is the scoring contract: IsInteresting returns 0 for "not
// interesting" (the caller is expected to do nothing further) or a
// positive score the caller may use to prioritize enqueueing. A
// Feedback also owns exactly one FeedbackQueue, set via
// SetFeedbackQueue and readable via FeedbackQueue.
type Feedback interface {
	IsInteresting(ex Executor) (float64, error)
	FeedbackQueue() *queue.FeedbackQueue
	SetFeedbackQueue(fq *queue.FeedbackQueue)
}

// Base is an embeddable implementation of the FeedbackQueue/
// SetFeedbackQueue/BindQueue plumbing so a concrete feedback only has to
// write IsInteresting. Embedding Base also satisfies
// queue.FeedbackBinder, which is how queue.NewFeedbackQueue wires a
// queue back into its owning feedback without the queue package
// importing this one.
type Base struct {
	fq    *queue.FeedbackQueue
	stats *stats.Stats
}

// SetStats binds a counters block that EnqueueIfInteresting reports into.
// A nil Base.stats (the zero value) is a valid no-op target, so binding
// one is optional.
func (b *Base) SetStats(s *stats.Stats) {
	if b == nil {
		return
	}
	b.stats = s
}

// FeedbackQueue returns the queue currently bound to this feedback, or
// nil if none is bound yet.
func (b *Base) FeedbackQueue() *queue.FeedbackQueue {
	if b == nil {
		return nil
	}
	return b.fq
}

// SetFeedbackQueue binds fq as this feedback's queue. It only sets this
// feedback's own pointer; fq's back-reference to its owner is wired once,
// at construction, via queue.NewFeedbackQueue's owner.BindQueue(fq) call.
func (b *Base) SetFeedbackQueue(fq *queue.FeedbackQueue) {
	if b == nil {
		return
	}
	b.fq = fq
}

// BindQueue implements queue.FeedbackBinder. A FeedbackQueue calls this
// on its owner when it is constructed (and with nil when it is closed);
// it does not itself call back into fq, since that link was already
// established by the caller that invoked queue.NewFeedbackQueue.
func (b *Base) BindQueue(fq *queue.FeedbackQueue) {
	if b == nil {
		return
	}
	b.fq = fq
}

var _ queue.FeedbackBinder = (*Base)(nil)

// EnqueueIfInteresting is a wrap-and-enqueue convenience for an engine
// responsibility the core makes available rather than performs
// automatically: when score is positive, it adds e
// to this feedback's bound queue and reports true; a non-positive score,
// or no bound queue, is a no-op reported as false.
//
// Every call represents one IsInteresting verdict on an executed input,
// so it also drives this feedback's bound Stats, if any: RecordExecution
// accounts for the run being scored, and RecordInteresting accounts for
// a positive verdict regardless of whether it ends up enqueued.
func (b *Base) EnqueueIfInteresting(score float64, e *queue.Entry) bool {
	if b == nil {
		return false
	}
	b.stats.RecordExecution(0)
	if score > 0 {
		b.stats.RecordInteresting()
	}
	if score <= 0 || b.fq == nil || e == nil {
		return false
	}
	b.fq.Add(e)
	return true
}
