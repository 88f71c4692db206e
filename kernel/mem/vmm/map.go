package vmm

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
)

var (
	errNoHugePageSupport  = &kernel.Error{Module: "vmm", Message: "huge pages are not supported"}
	errNoFrameAllocator   = &kernel.Error{Module: "vmm", Message: "a frame allocator is required to create page tables"}
	errTableNotAccessible = &kernel.Error{Module: "vmm", Message: "page table frame is not accessible"}
	errFrameOutOfRange    = &kernel.Error{Module: "vmm", Message: "frame is outside the physical address space"}
	errPageOutOfRange     = &kernel.Error{Module: "vmm", Message: "page is outside the virtual address space"}
	directoryEntryFlags   = FlagPresent | FlagRW | FlagUserAccessible
)

// FrameAllocatorFn is a function that can allocate physical frames.
type FrameAllocatorFn func() (pmm.Frame, *kernel.Error)

// Map establishes a mapping between a virtual page and a physical memory
// frame using this page directory. If the page table that should hold the
// entry does not exist yet, Map uses allocFn to reserve a frame for it and
// clears its contents before installing it in the directory.
//
// Map belongs to the memory manager; the monitor only ever modifies entries
// that already exist.
func (pdt *PageDirectory) Map(page Page, frame pmm.Frame, flags PageTableEntryFlag, allocFn FrameAllocatorFn) *kernel.Error {
	if !pdt.Valid() {
		return ErrNoDirectory
	}

	if page.Address() > MaxVirtAddr {
		return errPageOutOfRange
	}

	if !frame.Valid() {
		return errFrameOutOfRange
	}

	var (
		err    *kernel.Error
		mapped bool
	)

	pdt.walk(page.Address(), func(pteLevel uint8, pte *PageTableEntry) bool {
		// If we reached the last level all we need to do is to map the
		// frame in place and flag it as present and flush its TLB entry
		if pteLevel == pageLevels-1 {
			*pte = 0
			pte.SetFrame(frame)
			pte.SetFlags(flags | FlagPresent)
			pdt.FlushTLBEntry(page.Address())
			mapped = true
			return true
		}

		if pte.HasFlags(FlagPresent | FlagAttributeIndex) {
			err = errNoHugePageSupport
			return false
		}

		if pte.HasFlags(FlagPresent) {
			return true
		}

		// Next table does not yet exist; we need to allocate a
		// physical frame for it and clear its contents.
		if allocFn == nil {
			err = errNoFrameAllocator
			return false
		}

		var newTableFrame pmm.Frame
		if newTableFrame, err = allocFn(); err != nil {
			return false
		}

		table := pdt.resolve(newTableFrame.Address())
		if table == nil {
			err = errTableNotAccessible
			return false
		}
		*table = Table{}

		*pte = 0
		pte.SetFrame(newTableFrame)
		pte.SetFlags(directoryEntryFlags)
		return true
	})

	// The walk stops early if a present directory entry points to a
	// table that cannot be resolved.
	if err == nil && !mapped {
		err = errTableNotAccessible
	}

	return err
}

// Unmap removes a mapping previously installed via a call to Map. The page
// table that held the entry is not released.
func (pdt *PageDirectory) Unmap(page Page) *kernel.Error {
	if !pdt.Valid() {
		return ErrNoDirectory
	}

	pte, err := pdt.Entry(page.Address())
	if err != nil {
		return err
	}

	*pte = 0
	pdt.FlushTLBEntry(page.Address())
	return nil
}
