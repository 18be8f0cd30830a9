package afltest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AFLplusplus/libafl-go/engine"
)

func TestMockRNGBelow(t *testing.T) {
	r := &MockRNG{Value: 7}
	assert.Equal(t, 2, r.Below(5))
	assert.Equal(t, 0, r.Below(0))
	assert.Equal(t, 2, r.Calls())
}

func TestMockMutatorRecordsNotifications(t *testing.T) {
	m := &MockMutator{}
	m.CustomQueueNewEntry("a")
	m.CustomQueueNewEntry("b")
	assert.Equal(t, []any{"a", "b"}, m.Seen())
}

func TestMockDriverAndStageWiring(t *testing.T) {
	mut := &MockMutator{}
	stage := NewMockStage(mut)
	driver := NewMockDriver(stage)

	require.Len(t, driver.Stages(), 1)
	require.Len(t, driver.Stages()[0].Mutators(), 1)
	assert.Same(t, mut, driver.Stages()[0].Mutators()[0].(*MockMutator))
}

func TestMockBroadcastRecordsSentMessages(t *testing.T) {
	b := &MockBroadcast{}
	msg, err := b.AllocNext(engine.MessageNewQueueEntry, 4)
	require.NoError(t, err)
	require.NoError(t, b.Send(msg))

	require.Len(t, b.Messages(), 1)
	assert.Equal(t, engine.MessageNewQueueEntry, b.Messages()[0].Tag)
}

func TestMockBroadcastErrorInjection(t *testing.T) {
	b := &MockBroadcast{AllocErr: assertErr}
	_, err := b.AllocNext(engine.MessageNewQueueEntry, 4)
	assert.Equal(t, assertErr, err)

	b2 := &MockBroadcast{SendErr: assertErr}
	err = b2.Send(engine.Message{})
	assert.Equal(t, assertErr, err)
}

func TestMockEngineWiring(t *testing.T) {
	rng := &MockRNG{Value: 1}
	bc := &MockBroadcast{}
	driver := NewMockDriver()
	e := &MockEngine{IDValue: 3, RNGImpl: rng, Driver: driver, BroadcastImpl: bc}

	assert.Equal(t, 3, e.ID())
	assert.Same(t, rng, e.RNG().(*MockRNG))
	assert.Equal(t, driver, e.FuzzOne())
	assert.Same(t, bc, e.Broadcast().(*MockBroadcast))
}

var assertErr = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }
