package kmon

import (
	"io"

	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

const reportLegend = "G: global   I: page table attribute index D: dirty\n" +
	"A: accessed C: cache disable              T: write through\n" +
	"U: user     W: writeable                  P: present\n" +
	"-----------------------------------\n"

// Record describes the state of a single page in a range report.
type Record struct {
	VirtAddr uintptr
	Mapped   bool
	PhysAddr uintptr
	Flags    vmm.PageTableEntryFlag
}

// VisitRange looks up every page in rng in ascending address order and
// passes its record to visitFn. If visitFn returns false the visit stops.
func VisitRange(pdt *vmm.PageDirectory, rng PageRange, visitFn func(Record) bool) {
	for index := uintptr(0); index < rng.Count; index++ {
		va := rng.Page(index)
		rec := Record{VirtAddr: va}

		if mapping := pdt.Lookup(va); mapping.Present {
			rec.Mapped = true
			rec.PhysAddr = mapping.Frame.Address()
			rec.Flags = mapping.Flags
		}

		if !visitFn(rec) {
			return
		}
	}
}

// RenderRange returns one record per page in rng.
func RenderRange(pdt *vmm.PageDirectory, rng PageRange) []Record {
	var records []Record
	VisitRange(pdt, rng, func(rec Record) bool {
		records = append(records, rec)
		return true
	})
	return records
}

// WriteReport prints the permission legend followed by one line per page in
// rng. Mapped pages list their virtual address, frame address and
// permission bits; unmapped pages only list their virtual address.
func WriteReport(w io.Writer, pdt *vmm.PageDirectory, rng PageRange) {
	kfmt.Fprintf(w, reportLegend)
	kfmt.Fprintf(w, "virtual_ad  physica_ad  %s\n", permLegend[:])

	VisitRange(pdt, rng, func(rec Record) bool {
		writeRecord(w, rec)
		return true
	})
}

func writeRecord(w io.Writer, rec Record) {
	if !rec.Mapped {
		kfmt.Fprintf(w, "0x%8x  ----------  ---------\n", rec.VirtAddr)
		return
	}

	kfmt.Fprintf(w, "0x%8x  0x%8x  %s\n", rec.VirtAddr, rec.PhysAddr, FormatFlags(rec.Flags))
}
