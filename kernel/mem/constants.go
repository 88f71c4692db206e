package mem

const (
	// PointerShift is equal to log2 of the size of a page table entry. The
	// two-level i386 paging scheme uses 32-bit entries (1 << PointerShift).
	PointerShift = 2

	// PageShift is equal to log2(PageSize). This constant is used when
	// we need to convert a physical address to a page number (shift right by PageShift)
	// and vice-versa.
	PageShift = 12

	// PageSize defines the system's page size in bytes.
	PageSize = Size(1 << PageShift)
)
