package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordExecutionAccumulatesLatency(t *testing.T) {
	s := New()
	s.RecordExecution(100)
	s.RecordExecution(300)

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap.Executions)
	assert.Equal(t, uint64(200), snap.AvgLatencyNs)
}

func TestRecordInteresting(t *testing.T) {
	s := New()
	s.RecordInteresting()
	s.RecordInteresting()
	assert.Equal(t, uint64(2), s.Snapshot().Interesting)
}

func TestRecordExitClassifiesCrashesAndTimeouts(t *testing.T) {
	s := New()
	const (
		normal  = 0
		timeout = 2
		segv    = 3
		ill     = 6
		crash   = 7
	)
	s.RecordExit(normal)
	s.RecordExit(timeout)
	s.RecordExit(segv)
	s.RecordExit(ill)
	s.RecordExit(crash)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Timeouts)
	assert.Equal(t, uint64(3), snap.Crashes)
	assert.Equal(t, uint64(1), snap.ExitCounts[normal])
}

func TestRecordExitIgnoresOutOfRange(t *testing.T) {
	s := New()
	s.RecordExit(-1)
	s.RecordExit(99)
	assert.Equal(t, uint64(0), s.Snapshot().Crashes)
}

func TestNilStatsIsSafe(t *testing.T) {
	var s *Stats
	s.RecordExecution(1)
	s.RecordInteresting()
	s.RecordExit(0)
	s.Stop()
	assert.Equal(t, uint64(0), s.Snapshot().Executions)
}

func TestStatsObserverDelegates(t *testing.T) {
	s := New()
	obs := StatsObserver{Stats: s}
	obs.ObserveExecution(50)
	obs.ObserveInteresting(1.5)
	obs.ObserveInteresting(0)
	obs.ObserveExit(3)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Executions)
	assert.Equal(t, uint64(1), snap.Interesting)
	assert.Equal(t, uint64(1), snap.Crashes)
}

func TestNoOpObserverDoesNothing(t *testing.T) {
	var o NoOpObserver
	o.ObserveExecution(1)
	o.ObserveInteresting(1)
	o.ObserveExit(1)
}
