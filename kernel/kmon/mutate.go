package kmon

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// Operation selects how ApplyPermissions combines a mask with the existing
// permission bits of an entry.
type Operation uint8

const (
	// OpSet sets the mask bits.
	OpSet Operation = iota

	// OpClear clears the mask bits.
	OpClear
)

// ApplyPermissions sets or clears the bits in mask for every mapped page in
// rng and returns the number of entries it modified. Pages that are not
// mapped at either paging level are skipped. The present bit is never
// modified, even if mask contains it.
//
// ApplyPermissions modifies the live page table; callers are responsible for
// not revoking access to memory the kernel itself is executing from.
func ApplyPermissions(pdt *vmm.PageDirectory, rng PageRange, mask vmm.PageTableEntryFlag, op Operation) (uintptr, *kernel.Error) {
	if !pdt.Valid() {
		return 0, vmm.ErrNoDirectory
	}

	mask &= vmm.FlagMask &^ vmm.FlagPresent

	var updated uintptr
	for index := uintptr(0); index < rng.Count; index++ {
		va := rng.Page(index)
		pte, err := pdt.Entry(va)
		if err != nil {
			continue
		}

		switch op {
		case OpSet:
			pte.SetFlags(mask)
		case OpClear:
			pte.ClearFlags(mask)
		}

		pdt.FlushTLBEntry(va)
		updated++
	}

	return updated, nil
}
