package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInput struct{ data []byte }

func (f fakeInput) Bytes() []byte { return f.data }
func (f fakeInput) Len() int      { return len(f.data) }

func TestNewEntryAssignsMonotonicID(t *testing.T) {
	a := NewEntry(fakeInput{[]byte("a")})
	b := NewEntry(fakeInput{[]byte("b")})
	assert.Greater(t, b.ID(), a.ID())
}

func TestEntryAccessorsNilSafe(t *testing.T) {
	var e *Entry
	assert.Equal(t, uint64(0), e.ID())
	assert.Nil(t, e.Input())
	assert.Nil(t, e.Next())
	assert.Nil(t, e.Prev())
	assert.Nil(t, e.Parent())
	assert.Nil(t, e.Children())
	assert.Nil(t, e.OwnerQueue())
	e.SetParent(NewEntry(fakeInput{}))
	e.Remove()
}

func TestSetParentLinksChild(t *testing.T) {
	parent := NewEntry(fakeInput{[]byte("seed")})
	child := NewEntry(fakeInput{[]byte("mutated")})

	child.SetParent(parent)

	require.Equal(t, parent, child.Parent())
	require.Len(t, parent.Children(), 1)
	assert.Same(t, child, parent.Children()[0])
}

func TestEntryRemoveSplicesNeighbours(t *testing.T) {
	a := NewEntry(fakeInput{[]byte("a")})
	b := NewEntry(fakeInput{[]byte("b")})
	c := NewEntry(fakeInput{[]byte("c")})
	a.next, b.prev = b, a
	b.next, c.prev = c, b

	b.Remove()

	assert.Same(t, c, a.Next())
	assert.Same(t, a, c.Prev())
	assert.Nil(t, b.Next())
	assert.Nil(t, b.Prev())
}

func TestEntryRemoveRecursesIntoChildren(t *testing.T) {
	parent := NewEntry(fakeInput{[]byte("seed")})
	child := NewEntry(fakeInput{[]byte("child")})
	grandchild := NewEntry(fakeInput{[]byte("grandchild")})
	child.SetParent(parent)
	grandchild.SetParent(child)

	parent.Remove()

	assert.Nil(t, parent.Children())
	assert.Nil(t, child.Parent())
	assert.Nil(t, child.Input())
	assert.Nil(t, grandchild.Parent())
	assert.Nil(t, grandchild.Input())
}

func TestEntryRemoveIsIdempotent(t *testing.T) {
	e := NewEntry(fakeInput{[]byte("x")})
	e.Remove()
	assert.NotPanics(t, func() { e.Remove() })
}
