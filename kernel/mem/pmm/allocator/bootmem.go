// Package allocator provides the physical frame allocators that back the
// page tables of a page directory.
package allocator

import (
	"io"

	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
	"github.com/KyeeHuang/mit-jos/kernel/mem"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
)

var (
	// ErrBootAllocOutOfMemory is returned by BootMemAllocator once every
	// available frame has been handed out.
	ErrBootAllocOutOfMemory = &kernel.Error{Module: "boot_mem_alloc", Message: "out of memory"}
)

// BootMemAllocator implements a rudimentary physical memory allocator that
// hands out the frames of the available memory regions in ascending order.
//
// Allocations are tracked via an internal counter that contains the last
// allocated frame. Frames occupied by the kernel image are never returned.
// It is not possible to free allocated frames.
type BootMemAllocator struct {
	regions []Region

	// allocCount tracks the total number of allocated frames.
	allocCount uint64

	// lastAllocFrame tracks the last allocated frame number.
	lastAllocFrame pmm.Frame

	kernelStartAddr, kernelEndAddr uintptr

	// The kernel image occupies frames [kernelStartFrame, kernelEndFrame).
	kernelStartFrame, kernelEndFrame pmm.Frame
}

// NewBootMemAllocator returns an allocator for the supplied memory regions.
// The physical range [kernelStart, kernelEnd) is excluded from allocation.
// The regions must be sorted by address.
func NewBootMemAllocator(regions []Region, kernelStart, kernelEnd uintptr) *BootMemAllocator {
	alloc := &BootMemAllocator{regions: regions}
	alloc.init(kernelStart, kernelEnd)
	return alloc
}

// init resets the allocator and records the location of the kernel image.
func (alloc *BootMemAllocator) init(kernelStart, kernelEnd uintptr) {
	alloc.allocCount = 0
	alloc.lastAllocFrame = 0
	alloc.kernelStartAddr = kernelStart
	alloc.kernelEndAddr = kernelEnd
	alloc.kernelStartFrame = pmm.FrameFromAddress(kernelStart)
	alloc.kernelEndFrame = pmm.FrameFromAddress(mem.PageAlignUp(kernelEnd))
}

// AllocCount returns the number of frames allocated so far.
func (alloc *BootMemAllocator) AllocCount() uint64 {
	return alloc.allocCount
}

// AllocFrame reserves the next available free frame. It returns
// ErrBootAllocOutOfMemory if no more memory can be allocated.
func (alloc *BootMemAllocator) AllocFrame() (pmm.Frame, *kernel.Error) {
	pageSize := uint64(mem.PageSize)

	for _, region := range alloc.regions {
		if region.Type != RegionAvailable || region.Length < pageSize {
			continue
		}

		// Region bounds may not be page-aligned; shrink them to whole frames.
		startFrame := mem.AlignUp(region.PhysAddress, pageSize) >> mem.PageShift
		endFrame := mem.AlignDown(region.End(), pageSize)>>mem.PageShift - 1
		if startFrame > uint64(pmm.MaxFrame) {
			continue
		}
		if endFrame > uint64(pmm.MaxFrame) {
			endFrame = uint64(pmm.MaxFrame)
		}

		if endFrame < startFrame || (alloc.allocCount != 0 && uint64(alloc.lastAllocFrame) >= endFrame) {
			continue
		}

		candidate := pmm.Frame(startFrame)
		if alloc.allocCount != 0 && alloc.lastAllocFrame >= candidate {
			candidate = alloc.lastAllocFrame + 1
		}

		// Skip over the kernel image.
		if candidate >= alloc.kernelStartFrame && candidate < alloc.kernelEndFrame {
			candidate = alloc.kernelEndFrame
		}

		// The kernel may end at the last frame of the region.
		if uint64(candidate) > endFrame {
			continue
		}

		alloc.lastAllocFrame = candidate
		alloc.allocCount++
		return alloc.lastAllocFrame, nil
	}

	return pmm.InvalidFrame, ErrBootAllocOutOfMemory
}

// PrintMemoryMap writes the memory regions managed by the allocator and the
// location of the kernel image to w.
func (alloc *BootMemAllocator) PrintMemoryMap(w io.Writer) {
	var totalFree mem.Size

	kfmt.Fprintf(w, "[boot_mem_alloc] system memory map:\n")
	for _, region := range alloc.regions {
		kfmt.Fprintf(w, "\t[0x%10x - 0x%10x], size: %10d, type: %s\n", region.PhysAddress, region.End(), region.Length, region.Type.String())

		if region.Type == RegionAvailable {
			totalFree += mem.Size(region.Length)
		}
	}

	kfmt.Fprintf(w, "[boot_mem_alloc] available memory: %dKb\n", uint64(totalFree/mem.Kb))
	kfmt.Fprintf(w, "[boot_mem_alloc] kernel loaded at 0x%x - 0x%x\n", alloc.kernelStartAddr, alloc.kernelEndAddr)

	var size, pages uint64
	if alloc.kernelEndFrame > alloc.kernelStartFrame {
		size = uint64(alloc.kernelEndAddr - alloc.kernelStartAddr)
		pages = uint64(alloc.kernelEndFrame - alloc.kernelStartFrame)
	}
	kfmt.Fprintf(w, "[boot_mem_alloc] size: %d bytes, reserved pages: %d\n", size, pages)
}
