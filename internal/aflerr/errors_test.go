package aflerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndError(t *testing.T) {
	err := New("queue.NewBase", Alloc, "cannot acquire shared memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue.NewBase")
	assert.Contains(t, err.Error(), "alloc")
	assert.Contains(t, err.Error(), "cannot acquire shared memory")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap("op", Alloc, nil))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("mmap failed")
	err := Wrap("shm.New", Alloc, cause)
	require.ErrorIs(t, err, cause)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestIsKind(t *testing.T) {
	err := New("process.Wait", Fatal, "waitpid failed")
	assert.True(t, IsKind(err, Fatal))
	assert.False(t, IsKind(err, Alloc))
	assert.False(t, IsKind(errors.New("plain"), Fatal))
}

func TestErrorIsMatchesByKind(t *testing.T) {
	a := New("op-a", Alloc, "first")
	b := New("op-b", Alloc, "second")
	c := New("op-c", Initialize, "third")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}
