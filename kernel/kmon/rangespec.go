package kmon

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// PageRange describes a run of consecutive virtual pages.
type PageRange struct {
	// Start is the page-aligned address of the first page.
	Start uintptr

	// Count is the number of pages in the range.
	Count uintptr
}

// Page returns the virtual address of the index-th page in the range.
func (r PageRange) Page(index uintptr) uintptr {
	return r.Start + index<<mem.PageShift
}

// ResolveRange converts the positional range arguments of a command into a
// PageRange. The following forms are supported:
//
//	<va_hex>               a single page
//	<va_hex> <end_hex>     pages up to end rounded up to a page boundary
//	<va_hex> <count_dec>   count pages
//
// The start address is always rounded down to the page that contains it.
func ResolveRange(args []string) (PageRange, *kernel.Error) {
	if len(args) == 0 || len(args) > 2 || !isHex(args[0]) {
		return PageRange{}, ErrUsage
	}

	va, err := parseHex(args[0])
	if err != nil {
		return PageRange{}, err
	}

	rng := PageRange{Start: mem.PageAlignDown(va), Count: 1}

	if len(args) == 2 {
		if isHex(args[1]) {
			var end uintptr
			if end, err = parseHex(args[1]); err != nil {
				return PageRange{}, err
			}

			endPage := mem.AlignUp(uint64(end), uint64(mem.PageSize))
			if endPage <= uint64(rng.Start) {
				return PageRange{}, ErrEmptyRange
			}
			rng.Count = uintptr((endPage - uint64(rng.Start)) >> mem.PageShift)
		} else if rng.Count, err = ParseNumber(args[1], 10); err != nil {
			return PageRange{}, err
		}
	}

	if rng.Count == 0 {
		return PageRange{}, ErrEmptyRange
	}

	if uint64(rng.Start)+uint64(rng.Count)<<mem.PageShift > uint64(vmm.MaxVirtAddr)+1 {
		return PageRange{}, ErrRangeOverflow
	}

	return rng, nil
}
