package vmm

import "github.com/KyeeHuang/mit-jos/kernel"

var (
	// ErrNoDirectory is returned when an operation requires a page
	// directory but none has been attached.
	ErrNoDirectory = &kernel.Error{Module: "vmm", Message: "no page directory attached"}
)

// Table describes a page directory or a page table. Both occupy a single
// page and contain entriesPerTable entries.
type Table [entriesPerTable]PageTableEntry

// TableResolver returns an accessible pointer to the page table stored at
// the supplied physical address. When running inside the kernel this is the
// physical-to-kernel-virtual translation (KADDR); tests and the hosted
// simulator plug in their own physical memory model.
type TableResolver func(physAddr uintptr) *Table

// PageDirectory describes the top-most table of the two-level paging
// scheme. It does not own any of the tables it references; it merely
// provides access to them for the duration of an operation.
type PageDirectory struct {
	table   *Table
	resolve TableResolver

	// FlushFn is invoked with the virtual address of each page whose
	// entry gets modified. A nil value disables TLB maintenance.
	FlushFn func(virtAddr uintptr)
}

// NewPageDirectory returns a PageDirectory that operates on the supplied
// directory table and uses resolve to access the page tables it points to.
func NewPageDirectory(table *Table, resolve TableResolver) *PageDirectory {
	return &PageDirectory{
		table:   table,
		resolve: resolve,
	}
}

// Valid returns true if the page directory points to a table and can
// resolve the page tables it references.
func (pdt *PageDirectory) Valid() bool {
	return pdt != nil && pdt.table != nil && pdt.resolve != nil
}

// FlushTLBEntry invalidates the cached translation for virtAddr. It must be
// called after modifying an entry returned by Entry.
func (pdt *PageDirectory) FlushTLBEntry(virtAddr uintptr) {
	if pdt.FlushFn != nil {
		pdt.FlushFn(virtAddr)
	}
}
