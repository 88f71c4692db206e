// Package pmm contains code that manages physical memory frame allocations.
package pmm

import "github.com/KyeeHuang/mit-jos/kernel/mem"

// Frame describes a physical memory page index.
type Frame uintptr

const (
	// InvalidFrame is returned by page allocators when they fail to
	// reserve the requested frame. It is the first frame index that cannot
	// be reached by a 32-bit physical address.
	InvalidFrame = Frame(1 << (32 - mem.PageShift))

	// MaxFrame is the last frame addressable by a 32-bit physical address.
	MaxFrame = InvalidFrame - 1
)

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f <= MaxFrame
}

// Address returns the physical memory address pointed to by this Frame.
func (f Frame) Address() uintptr {
	return uintptr(f << mem.PageShift)
}

// FrameFromAddress returns a Frame that corresponds to the given physical
// address. This function can handle both page-aligned and not aligned
// addresses. In the latter case, the input address will be rounded down to
// the frame that contains it.
func FrameFromAddress(physAddr uintptr) Frame {
	return Frame(mem.PageAlignDown(physAddr) >> mem.PageShift)
}
