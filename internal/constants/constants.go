// Package constants holds compiled-in defaults for the core. There is no
// config-file or flag layer at this level; an external engine owns that.
package constants

const (
	// QueueEntryTableSize is the size, in bytes, of the shared-memory
	// mirror a base queue exports so sibling fuzzer processes can peek
	// its entry table. Deliberately separate from any
	// coverage-map sizing: a map channel's size is caller-supplied
	// (see DefaultMapChannelSize) and the two must never be conflated
	// the way the original C MAP_SIZE constant did for both purposes.
	QueueEntryTableSize = 1 << 16

	// DefaultMapChannelSize is the fallback size for a channel.Map when
	// the caller does not have a better estimate of the coverage ABI's
	// bitmap size (e.g. AFL++'s traditional 64KiB edge map).
	DefaultMapChannelSize = 1 << 16

	// MaxFeedbackQueues is an upper bound on a Global queue's
	// feedback-queue count for callers that preallocate.
	// Global.AddFeedbackQueue does not check it: registering more
	// queues than this is not rejected.
	MaxFeedbackQueues = 64
)
