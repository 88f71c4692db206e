package vmm

const (
	// pageLevels indicates the number of page levels supported by the i386
	// two-level paging scheme: a page directory and page tables.
	pageLevels = 2

	// entriesPerTable is the number of entries in a page directory or page
	// table. Each table occupies exactly one page.
	entriesPerTable = 1 << 10

	// ptePhysPageMask is a mask that allows us to extract the physical memory
	// address pointed to by a page table entry. For this particular architecture,
	// bits 12-31 contain the physical memory address.
	ptePhysPageMask = uint32(0xfffff000)

	// MaxVirtAddr is the highest virtual address that can be translated by
	// the two-level page table.
	MaxVirtAddr = uintptr(0xffffffff)
)

var (
	// pageLevelBits defines the number of virtual address bits that correspond to each
	// page level. Each level uses 10 bits which amounts to 1024 entries per table.
	pageLevelBits = [pageLevels]uint8{
		10,
		10,
	}

	// pageLevelShifts defines the shift required to access each page table component
	// of a virtual address.
	pageLevelShifts = [pageLevels]uint8{
		22,
		12,
	}
)

// entryIndex extracts the bits of virtAddr that index the table at the given
// page level.
func entryIndex(virtAddr uintptr, level uint8) uintptr {
	return (virtAddr >> pageLevelShifts[level]) & ((1 << pageLevelBits[level]) - 1)
}

// DirectoryIndex returns the page directory index for virtAddr.
func DirectoryIndex(virtAddr uintptr) uintptr { return entryIndex(virtAddr, 0) }

// TableIndex returns the page table index for virtAddr.
func TableIndex(virtAddr uintptr) uintptr { return entryIndex(virtAddr, pageLevels-1) }
