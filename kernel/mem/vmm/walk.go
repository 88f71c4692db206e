package vmm

// pageTableWalker is a function that can be passed to the walk method. The
// function receives the current page level and page table entry as its
// arguments. If the function returns false, then the page walk is aborted.
type pageTableWalker func(pteLevel uint8, pte *PageTableEntry) bool

// walk performs a page table walk for the given virtual address. It calls the
// supplied walkFn with the page table entry that corresponds to each page
// table level.
//
// The table pointed to by a directory entry is only resolved if walkFn
// returns true and the entry is present; the frame address of a non-present
// entry carries no meaning and must never be dereferenced.
func (pdt *PageDirectory) walk(virtAddr uintptr, walkFn pageTableWalker) {
	table := pdt.table
	for level := uint8(0); level < pageLevels; level++ {
		pte := &table[entryIndex(virtAddr, level)]
		if !walkFn(level, pte) || level == pageLevels-1 {
			return
		}

		if !pte.HasFlags(FlagPresent) {
			return
		}

		if table = pdt.resolve(pte.Address()); table == nil {
			return
		}
	}
}
