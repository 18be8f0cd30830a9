package queue

// FeedbackBinder is the narrow capability a feedback exposes so a
// FeedbackQueue can wire itself back into its owning feedback without
// the queue package importing the feedback package. A concrete feedback
// type implements this once, typically by embedding feedback.Base.
type FeedbackBinder interface {
	// BindQueue is called with the FeedbackQueue that now owns this
	// feedback, or nil when that queue is being torn down.
	BindQueue(fq *FeedbackQueue)
}

// FeedbackQueue is a Base queue paired with the feedback that decides
// what belongs in it. Name is an optional label used
// only for diagnostics and broadcast headers; the empty string is valid.
type FeedbackQueue struct {
	*Base
	Name string

	owner FeedbackBinder
}

// NewFeedbackQueue builds a feedback queue whose entry table mirror is
// tableSize bytes. When owner is non-nil, owner.BindQueue(fq) is called
// so the feedback holds a reference back to its queue.
func NewFeedbackQueue(owner FeedbackBinder, name string, tableSize int) (*FeedbackQueue, error) {
	base, err := NewBase(tableSize)
	if err != nil {
		return nil, err
	}
	base.name = name
	fq := &FeedbackQueue{Base: base, Name: name, owner: owner}
	if owner != nil {
		owner.BindQueue(fq)
	}
	return fq, nil
}

// Close unwires the feedback queue from its owning feedback (so the
// feedback doesn't keep pointing at a queue about to go away), then
// closes the embedded base queue's shared-memory mirror.
func (fq *FeedbackQueue) Close() error {
	if fq == nil {
		return nil
	}
	if fq.owner != nil {
		fq.owner.BindQueue(nil)
		fq.owner = nil
	}
	return fq.Base.Close()
}
