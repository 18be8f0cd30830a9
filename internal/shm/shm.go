// Package shm provides the untyped, fixed-size, inter-process
// readable/writable buffer used by the target and observed by the fuzzer
// It is backed by an anonymous, MAP_SHARED mapping:
// a mapping created before fork(2) is shared by physical page between
// parent and child, which is what makes it usable as an observation
// channel's backing store and as the queue's cross-process entry table.
//
// Grounded on the host module's internal/queue mmapQueues, which
// page-rounds a requested size and calls the raw mmap syscall directly;
// here we use golang.org/x/sys/unix.Mmap instead of a bare syscall
// number, since nothing about this mapping needs to dodge the wrapper the
// way the original's io_uring SQE/CQE mapping did.
package shm

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/AFLplusplus/libafl-go/internal/aflerr"
)

// Region is a fixed-size shared-memory mapping.
type Region struct {
	data []byte
	size int
}

// New allocates a new anonymous shared-memory region of at least size
// bytes, rounded up to a whole number of pages. The only failure mode is
// "cannot acquire" (resource exhaustion or permission), reported as an
// aflerr.Alloc error; callers must treat it as fatal for whatever
// component was being constructed.
func New(size int) (*Region, error) {
	if size <= 0 {
		size = 1
	}
	pageSize := os.Getpagesize()
	if rem := size % pageSize; rem != 0 {
		size += pageSize - rem
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
	if err != nil {
		return nil, aflerr.Wrap("shm.New", aflerr.Alloc, err)
	}

	return &Region{data: data, size: size}, nil
}

// Bytes returns the full backing slice. The returned slice aliases the
// mapping directly: writes are visible to every process sharing it.
func (r *Region) Bytes() []byte {
	if r == nil {
		return nil
	}
	return r.data
}

// Size returns the region's size in bytes (page-rounded).
func (r *Region) Size() int {
	if r == nil {
		return 0
	}
	return r.size
}

// Close unmaps the region.
func (r *Region) Close() error {
	if r == nil || r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return err
}
