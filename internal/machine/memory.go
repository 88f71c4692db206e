package machine

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// FrameAllocator is implemented by physical frame allocators.
type FrameAllocator interface {
	AllocFrame() (pmm.Frame, *kernel.Error)
}

// Memory simulates the physical frames of a machine that hold page tables.
// Frames that do not contain a page table have no backing storage.
type Memory struct {
	alloc  FrameAllocator
	tables map[uintptr]*vmm.Table
}

// NewMemory returns an empty Memory that reserves frames for new page
// tables using alloc.
func NewMemory(alloc FrameAllocator) *Memory {
	return &Memory{
		alloc:  alloc,
		tables: make(map[uintptr]*vmm.Table),
	}
}

// Resolve returns the page table stored in the frame at physAddr or nil if
// the frame does not hold a page table. Resolve implements vmm.TableResolver.
func (m *Memory) Resolve(physAddr uintptr) *vmm.Table {
	return m.tables[physAddr]
}

// AllocTable reserves a frame and backs it with an empty page table.
// AllocTable implements vmm.FrameAllocatorFn.
func (m *Memory) AllocTable() (pmm.Frame, *kernel.Error) {
	frame, err := m.alloc.AllocFrame()
	if err != nil {
		return pmm.InvalidFrame, err
	}

	m.tables[frame.Address()] = new(vmm.Table)
	return frame, nil
}

// Tables returns the number of frames that hold a page table.
func (m *Memory) Tables() int {
	return len(m.tables)
}
