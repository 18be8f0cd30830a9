package channel

import (
	"github.com/AFLplusplus/libafl-go/internal/aflerr"
	"github.com/AFLplusplus/libafl-go/internal/shm"
)

// Map is the coverage-bitmap observation channel: a Channel that also
// exposes a pointer-and-size view over a shared-memory region. TraceBits is valid to read for exactly MapSize bytes at any
// time between Reset and the next Reset, and is stable across resets,
// invalidated only by Close.
type Map struct {
	Base
	region *shm.Region
	size   int
}

// NewMap constructs a map channel backed by a fresh shared-memory region
// of at least the requested size. The only failure is shared-memory
// acquisition, surfaced as an aflerr.Initialize-wrapped error ("channel
// setup failed").
func NewMap(size int) (*Map, error) {
	region, err := shm.New(size)
	if err != nil {
		return nil, aflerr.Wrap("channel.NewMap", aflerr.Initialize, err)
	}
	return &Map{region: region, size: size}, nil
}

// TraceBits returns the coverage bitmap, sliced to exactly the size
// requested from NewMap even though the backing region is page-rounded.
// The slice aliases the underlying shared-memory mapping directly.
func (m *Map) TraceBits() []byte {
	if m == nil {
		return nil
	}
	bits := m.region.Bytes()
	if len(bits) < m.size {
		return nil
	}
	return bits[:m.size]
}

// MapSize returns the bitmap size in bytes exactly as requested from
// NewMap, not the page-rounded size of the backing shared-memory region.
func (m *Map) MapSize() int {
	if m == nil {
		return 0
	}
	return m.size
}

// Close tears down the backing shared-memory region.
func (m *Map) Close() error {
	if m == nil {
		return nil
	}
	return m.region.Close()
}

var _ Channel = (*Map)(nil)
