package kmon

import (
	"testing"

	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// testMemory models physical memory as a set of page tables keyed by their
// physical address.
type testMemory struct {
	tables    map[uintptr]*vmm.Table
	nextFrame pmm.Frame
	flushed   []uintptr
}

type testMapping struct {
	va    uintptr
	frame pmm.Frame
	flags vmm.PageTableEntryFlag
}

func (m *testMemory) resolve(physAddr uintptr) *vmm.Table {
	return m.tables[physAddr]
}

func (m *testMemory) alloc() (pmm.Frame, *kernel.Error) {
	frame := m.nextFrame
	m.nextFrame++
	m.tables[frame.Address()] = new(vmm.Table)
	return frame, nil
}

// snapshot returns a copy of every page table entry reachable from the
// directory.
func (m *testMemory) snapshot(dir *vmm.Table) map[uintptr]vmm.Table {
	out := map[uintptr]vmm.Table{0: *dir}
	for addr, table := range m.tables {
		out[addr] = *table
	}
	return out
}

// newTestDirectory builds a page directory that contains the supplied
// mappings. Page tables are allocated from frame 0x400 onwards.
func newTestDirectory(t *testing.T, mappings ...testMapping) (*vmm.PageDirectory, *testMemory, *vmm.Table) {
	t.Helper()

	var (
		mem = &testMemory{
			tables:    make(map[uintptr]*vmm.Table),
			nextFrame: pmm.Frame(0x400),
		}
		dir = new(vmm.Table)
		pdt = vmm.NewPageDirectory(dir, mem.resolve)
	)

	for _, mapping := range mappings {
		if err := pdt.Map(vmm.PageFromAddress(mapping.va), mapping.frame, mapping.flags, mem.alloc); err != nil {
			t.Fatalf("unable to map 0x%x: %v", mapping.va, err)
		}
	}

	pdt.FlushFn = func(va uintptr) { mem.flushed = append(mem.flushed, va) }
	return pdt, mem, dir
}
