package mem

import "golang.org/x/exp/constraints"

// AlignDown rounds addr down to the nearest multiple of align. The
// alignment must be a power of 2.
func AlignDown[I constraints.Unsigned](addr, align I) I {
	return addr &^ (align - 1)
}

// AlignUp rounds addr up to the nearest multiple of align. The alignment
// must be a power of 2. Values that would overflow I wrap around to 0.
func AlignUp[I constraints.Unsigned](addr, align I) I {
	return (addr + align - 1) &^ (align - 1)
}

// PageAlignDown returns the address of the page that contains addr.
func PageAlignDown(addr uintptr) uintptr {
	return AlignDown(addr, uintptr(PageSize))
}

// PageAlignUp rounds addr up to the next page boundary.
func PageAlignUp(addr uintptr) uintptr {
	return AlignUp(addr, uintptr(PageSize))
}
