package vmm

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
)

// Mapping describes the result of looking up a virtual address.
type Mapping struct {
	// Present is false if either the directory entry or the page table
	// entry that control the address are not present.
	Present bool

	// Frame is the physical frame the page maps to.
	Frame pmm.Frame

	// Flags contains the permission bits of the page table entry.
	Flags PageTableEntryFlag
}

// Entry returns the final page table entry that corresponds to a particular
// virtual address. The function performs a page table walk till it reaches
// the final page table entry returning ErrInvalidMapping if the page is not
// present at either level. Directory entries that map a 4M page are not
// followed; Entry returns errNoHugePageSupport for the addresses they cover.
func (pdt *PageDirectory) Entry(virtAddr uintptr) (*PageTableEntry, *kernel.Error) {
	if !pdt.Valid() {
		return nil, ErrNoDirectory
	}

	var (
		err   *kernel.Error
		entry *PageTableEntry
	)

	pdt.walk(virtAddr, func(pteLevel uint8, pte *PageTableEntry) bool {
		if !pte.HasFlags(FlagPresent) {
			entry = nil
			err = ErrInvalidMapping
			return false
		}

		if pteLevel < pageLevels-1 && pte.HasFlags(FlagAttributeIndex) {
			err = errNoHugePageSupport
			return false
		}

		if pteLevel == pageLevels-1 {
			entry = pte
		}
		return true
	})

	if entry == nil && err == nil {
		err = ErrInvalidMapping
	}

	return entry, err
}

// Lookup reports whether virtAddr is mapped and, if so, the frame and
// permission bits of the page that contains it. Addresses covered by a 4M
// page are reported as not present.
func (pdt *PageDirectory) Lookup(virtAddr uintptr) Mapping {
	pte, err := pdt.Entry(virtAddr)
	if err != nil {
		return Mapping{}
	}

	return Mapping{
		Present: true,
		Frame:   pte.Frame(),
		Flags:   pte.Flags(),
	}
}

// Translate returns the physical address that corresponds to the supplied
// virtual address or ErrInvalidMapping if the virtual address does not
// correspond to a mapped physical address.
func (pdt *PageDirectory) Translate(virtAddr uintptr) (uintptr, *kernel.Error) {
	pte, err := pdt.Entry(virtAddr)
	if err != nil {
		return 0, err
	}

	// Calculate the physical address by taking the physical frame address and
	// appending the offset from the virtual address
	return pte.Address() + PageOffset(virtAddr), nil
}

// PageOffset returns the offset within the page specified by a virtual
// address.
func PageOffset(virtAddr uintptr) uintptr {
	return virtAddr & uintptr(mem.PageSize-1)
}
