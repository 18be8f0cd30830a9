package queue

import "github.com/AFLplusplus/libafl-go/engine"

// Scheduler picks which feedback queue a Global queue's next poll should
// come from. It returns an index into the Global's feedback-queue slice,
// or -1 to defer straight to the Global's own base rotation.
type Scheduler func(g *Global) int

// Global composes a Base queue with zero or more feedback queues under a
// pluggable Scheduler. It is the top-level queue an
// engine typically polls: feedback queues hold entries some concrete
// Feedback considers interesting along a particular axis, while the
// embedded Base acts as the unconditional fallback corpus.
type Global struct {
	*Base
	feedbackQueues []*FeedbackQueue
	Scheduler      Scheduler
}

// NewGlobal allocates a global queue whose own entry table mirror is
// tableSize bytes, with DefaultSchedule as its initial Scheduler.
func NewGlobal(tableSize int) (*Global, error) {
	base, err := NewBase(tableSize)
	if err != nil {
		return nil, err
	}
	return &Global{Base: base, Scheduler: DefaultSchedule}, nil
}

// AddFeedbackQueue registers fq as one of this global queue's feedback
// queues. If an engine is already bound, it is propagated to fq too.
func (g *Global) AddFeedbackQueue(fq *FeedbackQueue) {
	if g == nil || fq == nil {
		return
	}
	g.feedbackQueues = append(g.feedbackQueues, fq)
	if g.Base != nil && g.Base.Engine() != nil {
		fq.SetEngine(g.Base.Engine())
	}
}

// FeedbackQueues returns the registered feedback queues. The returned
// slice is a read-only view; callers must not mutate it.
func (g *Global) FeedbackQueues() []*FeedbackQueue {
	if g == nil {
		return nil
	}
	return g.feedbackQueues
}

// SetEngine binds e on the embedded base queue and fans it out to every
// registered feedback queue, so a single engine wiring call configures
// the whole queue hierarchy.
func (g *Global) SetEngine(e engine.Engine) {
	if g == nil {
		return
	}
	g.Base.SetEngine(e)
	for _, fq := range g.feedbackQueues {
		fq.SetEngine(e)
	}
}

// GetNextInQueue asks the Scheduler which feedback queue to draw from.
// A valid index defers to that feedback queue's own GetNextInQueue; if
// that returns (nil, false) — e.g. the chosen feedback queue happens to
// be empty — it falls back to the embedded base's rotation. A Scheduler
// returning -1 (or any out-of-range index) goes straight to the base.
func (g *Global) GetNextInQueue(engineID int) (*Entry, bool) {
	if g == nil {
		return nil, false
	}
	if idx := g.schedule(); idx >= 0 && idx < len(g.feedbackQueues) {
		if e, ok := g.feedbackQueues[idx].GetNextInQueue(engineID); ok {
			return e, true
		}
	}
	return g.Base.GetNextInQueue(engineID)
}

func (g *Global) schedule() int {
	if g.Scheduler == nil {
		return -1
	}
	return g.Scheduler(g)
}

// DefaultSchedule draws uniformly at random over the registered feedback
// queues using the bound engine's RNG, returning -1 when there are none
// to choose from.
func DefaultSchedule(g *Global) int {
	n := len(g.feedbackQueues)
	if n == 0 {
		return -1
	}
	e := g.Base.Engine()
	if e == nil || e.RNG() == nil {
		return -1
	}
	return e.RNG().Below(n)
}

// Close closes the embedded base queue's shared-memory mirror and every
// registered feedback queue's.
func (g *Global) Close() error {
	if g == nil {
		return nil
	}
	var firstErr error
	for _, fq := range g.feedbackQueues {
		if err := fq.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := g.Base.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
