package vmm

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
)

var (
	// ErrInvalidMapping is returned when trying to lookup a virtual memory address that is not yet mapped.
	ErrInvalidMapping = &kernel.Error{Module: "vmm", Message: "virtual address does not point to a mapped physical page"}
)

// PageTableEntryFlag describes a flag that can be applied to a page table entry.
type PageTableEntryFlag uint32

const (
	// FlagPresent is set when the page is available in memory and not swapped out.
	FlagPresent PageTableEntryFlag = 1 << iota

	// FlagRW is set if the page can be written to.
	FlagRW

	// FlagUserAccessible is set if user-mode processes can access this page. If
	// not set only kernel code can access this page.
	FlagUserAccessible

	// FlagWriteThroughCaching implies write-through caching when set and write-back
	// caching if cleared.
	FlagWriteThroughCaching

	// FlagDoNotCache prevents this page from being cached if set.
	FlagDoNotCache

	// FlagAccessed is set by the CPU when this page is accessed.
	FlagAccessed

	// FlagDirty is set by the CPU when this page is modified.
	FlagDirty

	// FlagAttributeIndex selects the page attribute table entry for the page
	// (PAT). In a page directory entry the same bit selects 4M pages.
	FlagAttributeIndex

	// FlagGlobal if set, prevents the TLB from flushing the cached memory address
	// for this page when the swapping page tables by updating the CR3 register.
	FlagGlobal
)

const (
	// FlagBits is the number of hardware permission bits stored in the low
	// bits of an entry.
	FlagBits = 9

	// FlagMask selects the permission bits of an entry.
	FlagMask = PageTableEntryFlag(1<<FlagBits - 1)
)

// PageTableEntry describes a page directory or page table entry. These
// entries encode a physical frame address and a set of flags.
type PageTableEntry uint32

// HasFlags returns true if this entry has all the input flags set.
func (pte PageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return (uint32(pte) & uint32(flags)) == uint32(flags)
}

// SetFlags sets the input list of flags to the page table entry.
func (pte *PageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte = (PageTableEntry)(uint32(*pte) | uint32(flags))
}

// ClearFlags unsets the input list of flags from the page table entry.
func (pte *PageTableEntry) ClearFlags(flags PageTableEntryFlag) {
	*pte = (PageTableEntry)(uint32(*pte) &^ uint32(flags))
}

// Flags returns the permission bits of the entry.
func (pte PageTableEntry) Flags() PageTableEntryFlag {
	return PageTableEntryFlag(pte) & FlagMask
}

// Frame returns the physical page frame that this page table entry points to.
func (pte PageTableEntry) Frame() pmm.Frame {
	return pmm.Frame((uint32(pte) & ptePhysPageMask) >> mem.PageShift)
}

// Address returns the physical address of the frame this entry points to.
func (pte PageTableEntry) Address() uintptr {
	return uintptr(uint32(pte) & ptePhysPageMask)
}

// SetFrame updates the page table entry to point the the given physical frame.
func (pte *PageTableEntry) SetFrame(frame pmm.Frame) {
	*pte = (PageTableEntry)((uint32(*pte) &^ ptePhysPageMask) | uint32(frame.Address()))
}
