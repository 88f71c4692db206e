// Package machine assembles a simulated machine whose page directory can be
// inspected and modified by the kernel monitor.
package machine

import (
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/KyeeHuang/mit-jos/kernel/kmon"
	"github.com/KyeeHuang/mit-jos/kernel/mem"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm/allocator"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// Machine bundles the physical memory, frame allocator and page directory of
// a simulated machine.
type Machine struct {
	Memory    *Memory
	Allocator *allocator.BootMemAllocator
	Directory *vmm.PageDirectory
	Layout    kmon.KernelLayout

	// DirectoryFrame is the physical frame that holds the page directory.
	DirectoryFrame pmm.Frame

	log logrus.FieldLogger
}

// New builds a machine from cfg. The frames occupied by the kernel image are
// never used for page tables.
func New(cfg *Config, log logrus.FieldLogger) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	k := cfg.Kernel
	m := &Machine{
		Layout: kmon.KernelLayout{
			Start:    uintptr(k.Start),
			Entry:    uintptr(k.Entry),
			Etext:    uintptr(k.Etext),
			Edata:    uintptr(k.Edata),
			End:      uintptr(k.End),
			KernBase: uintptr(k.KernBase),
		},
		log: log,
	}

	kernelStart := mem.PageAlignDown(uintptr(k.Start))
	kernelEnd := uintptr(k.End - k.KernBase)
	if kernelEnd < kernelStart {
		kernelEnd = kernelStart
	}

	m.Allocator = allocator.NewBootMemAllocator(cfg.regions(), kernelStart, kernelEnd)
	m.Memory = NewMemory(m.Allocator)

	var kErr error
	if m.DirectoryFrame, kErr = m.allocDirectory(); kErr != nil {
		return nil, kErr
	}
	m.Directory = vmm.NewPageDirectory(m.Memory.Resolve(m.DirectoryFrame.Address()), m.Memory.Resolve)

	for index, mapping := range cfg.Mappings {
		if err := m.mapRange(mapping); err != nil {
			return nil, errors.WrapPrefix(err, fmt.Sprintf("mapping %d", index), 0)
		}
	}

	m.Directory.FlushFn = func(virtAddr uintptr) {
		m.log.WithField("va", fmt.Sprintf("%#x", virtAddr)).Debug("invalidated TLB entry")
	}

	log.WithFields(logrus.Fields{
		"pgdir":  fmt.Sprintf("%#x", m.DirectoryFrame.Address()),
		"tables": m.Memory.Tables(),
		"frames": m.Allocator.AllocCount(),
	}).Debug("machine initialized")

	return m, nil
}

func (m *Machine) allocDirectory() (pmm.Frame, error) {
	frame, err := m.Memory.AllocTable()
	if err != nil {
		return pmm.InvalidFrame, errors.Errorf("unable to allocate page directory: %s", err.Message)
	}
	return frame, nil
}

// mapRange installs the pages described by mapping into the page directory.
func (m *Machine) mapRange(mapping MappingConfig) error {
	flags, kErr := kmon.ParseMask(mapping.Perm)
	if kErr != nil {
		return errors.Errorf("perm %q: %s", mapping.Perm, kErr.Message)
	}

	for index := uint64(0); index < mapping.Pages; index++ {
		offset := index << mem.PageShift
		page := vmm.PageFromAddress(uintptr(uint64(mapping.VA) + offset))
		frame := pmm.FrameFromAddress(uintptr(uint64(mapping.PA) + offset))

		if kErr = m.Directory.Map(page, frame, flags, m.Memory.AllocTable); kErr != nil {
			return errors.Errorf("map 0x%x: %s", page.Address(), kErr.Message)
		}
	}

	m.log.WithFields(logrus.Fields{
		"va":    fmt.Sprintf("%#x", mapping.VA),
		"pa":    fmt.Sprintf("%#x", mapping.PA),
		"pages": mapping.Pages,
		"perm":  kmon.DescribeFlags(flags),
	}).Debug("mapped range")
	return nil
}

// Monitor returns a kernel monitor attached to the machine page directory
// that writes its output to out, or to the kfmt output sink when out is nil.
func (m *Machine) Monitor(out io.Writer) *kmon.Monitor {
	return kmon.New(kmon.Config{
		Directory: m.Directory,
		Output:    out,
		Layout:    m.Layout,
	})
}

// PrintMemoryMap writes the physical memory map of the machine to w.
func (m *Machine) PrintMemoryMap(w io.Writer) {
	m.Allocator.PrintMemoryMap(w)
}
