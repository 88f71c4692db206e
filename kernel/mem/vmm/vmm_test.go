package vmm

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
)

// fakeMemory models physical memory as a set of page tables keyed by their
// physical address.
type fakeMemory struct {
	tables       map[uintptr]*Table
	nextFrame    pmm.Frame
	resolveCalls int
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{
		tables:    make(map[uintptr]*Table),
		nextFrame: pmm.Frame(0x100),
	}
}

func (m *fakeMemory) resolve(physAddr uintptr) *Table {
	m.resolveCalls++
	return m.tables[physAddr]
}

func (m *fakeMemory) alloc() (pmm.Frame, *kernel.Error) {
	frame := m.nextFrame
	m.nextFrame++
	m.tables[frame.Address()] = new(Table)
	return frame, nil
}

func (m *fakeMemory) directory() *PageDirectory {
	return NewPageDirectory(new(Table), m.resolve)
}
