package vmm

import (
	"testing"

	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
)

func TestMapAndUnmap(t *testing.T) {
	mem := newFakeMemory()
	pdt := mem.directory()

	var flushed []uintptr
	pdt.FlushFn = func(virtAddr uintptr) { flushed = append(flushed, virtAddr) }

	pages := []Page{PageFromAddress(0x3000), PageFromAddress(0x4000), PageFromAddress(0xf0400000)}
	for index, page := range pages {
		if err := pdt.Map(page, pmm.Frame(index+1), FlagRW|FlagUserAccessible, mem.alloc); err != nil {
			t.Fatalf("[page %d] unexpected error: %v", index, err)
		}
	}

	// The first two pages share a page table
	if exp, got := 2, len(mem.tables); got != exp {
		t.Fatalf("expected %d page tables to be allocated; got %d", exp, got)
	}

	if exp, got := len(pages), len(flushed); got != exp {
		t.Fatalf("expected %d TLB flushes; got %d", exp, got)
	}

	for index, page := range pages {
		mapping := pdt.Lookup(page.Address())
		if !mapping.Present {
			t.Errorf("[page %d] expected page to be mapped", index)
			continue
		}

		if exp := pmm.Frame(index + 1); mapping.Frame != exp {
			t.Errorf("[page %d] expected frame %d; got %d", index, exp, mapping.Frame)
		}

		if exp := FlagPresent | FlagRW | FlagUserAccessible; mapping.Flags != exp {
			t.Errorf("[page %d] expected flags 0x%x; got 0x%x", index, exp, mapping.Flags)
		}
	}

	if err := pdt.Unmap(pages[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pdt.Lookup(pages[0].Address()).Present {
		t.Fatal("expected page to be unmapped")
	}

	if !pdt.Lookup(pages[1].Address()).Present {
		t.Fatal("expected neighbouring page to remain mapped")
	}

	if err := pdt.Unmap(pages[0]); err != ErrInvalidMapping {
		t.Fatalf("expected ErrInvalidMapping; got %v", err)
	}
}

func TestMapErrors(t *testing.T) {
	expErr := &kernel.Error{Module: "test", Message: "out of memory"}

	specs := []struct {
		setup  func(*fakeMemory, *PageDirectory)
		page   Page
		frame  pmm.Frame
		alloc  func(*fakeMemory) FrameAllocatorFn
		expErr *kernel.Error
	}{
		{
			func(_ *fakeMemory, pdt *PageDirectory) {
				pdt.table[0].SetFlags(FlagPresent | FlagAttributeIndex)
			},
			PageFromAddress(0x1000),
			pmm.Frame(1),
			func(m *fakeMemory) FrameAllocatorFn { return m.alloc },
			errNoHugePageSupport,
		},
		{
			nil,
			PageFromAddress(0x1000),
			pmm.Frame(1),
			func(*fakeMemory) FrameAllocatorFn { return nil },
			errNoFrameAllocator,
		},
		{
			nil,
			PageFromAddress(0x1000),
			pmm.Frame(1),
			func(*fakeMemory) FrameAllocatorFn {
				return func() (pmm.Frame, *kernel.Error) { return pmm.InvalidFrame, expErr }
			},
			expErr,
		},
		{
			nil,
			PageFromAddress(0x1000),
			pmm.Frame(1),
			func(*fakeMemory) FrameAllocatorFn {
				return func() (pmm.Frame, *kernel.Error) { return pmm.Frame(0x999), nil }
			},
			errTableNotAccessible,
		},
		{
			// present directory entry pointing to a frame without a table
			func(_ *fakeMemory, pdt *PageDirectory) {
				pdt.table[0].SetFrame(pmm.Frame(0x5))
				pdt.table[0].SetFlags(FlagPresent | FlagRW)
			},
			PageFromAddress(0x3000),
			pmm.Frame(1),
			func(m *fakeMemory) FrameAllocatorFn { return m.alloc },
			errTableNotAccessible,
		},
		{
			nil,
			PageFromAddress(0x1000),
			pmm.InvalidFrame,
			func(m *fakeMemory) FrameAllocatorFn { return m.alloc },
			errFrameOutOfRange,
		},
	}

	for specIndex, spec := range specs {
		mem := newFakeMemory()
		pdt := mem.directory()
		if spec.setup != nil {
			spec.setup(mem, pdt)
		}

		if err := pdt.Map(spec.page, spec.frame, FlagRW, spec.alloc(mem)); err != spec.expErr {
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}

		if pdt.Lookup(spec.page.Address()).Present {
			t.Errorf("[spec %d] expected page 0x%x to remain unmapped after a failed Map", specIndex, spec.page.Address())
		}
	}
}

func TestOperationsWithoutDirectory(t *testing.T) {
	var pdt *PageDirectory

	if pdt.Valid() {
		t.Fatal("expected nil page directory to be invalid")
	}

	if err := pdt.Map(0, 0, 0, nil); err != ErrNoDirectory {
		t.Fatalf("expected ErrNoDirectory; got %v", err)
	}

	if err := NewPageDirectory(nil, nil).Unmap(0); err != ErrNoDirectory {
		t.Fatalf("expected ErrNoDirectory; got %v", err)
	}
}
