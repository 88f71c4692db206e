package kmon

import (
	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
	"github.com/KyeeHuang/mit-jos/kernel/mem"
)

// CommandFunc implements a monitor command. argv contains the command name
// followed by its arguments.
type CommandFunc func(m *Monitor, argv []string) *kernel.Error

// Command describes a monitor command.
type Command struct {
	Name string
	Desc string

	// Usage lists example invocations that are displayed when the command
	// fails because of malformed arguments.
	Usage []string

	Func CommandFunc
}

func builtinCommands() []Command {
	return []Command{
		{
			Name: "help",
			Desc: "Display this list of commands",
			Func: cmdHelp,
		},
		{
			Name: "kerninfo",
			Desc: "Display information about the kernel",
			Func: cmdKernInfo,
		},
		{
			Name: "smps",
			Desc: "Display information about the mem mappings",
			Usage: []string{
				"smps 0x3000 0x5000   show the mapping from va=0x3000 to va=0x5000",
				"smps 0x3000 100      show the mapping of 100 virtual pages from va=0x3000",
				"smps 0x3000          show the mapping of va=0x3000 only",
			},
			Func: cmdShowMappings,
		},
		{
			Name: "stp",
			Desc: "Set page permissions",
			Usage: []string{
				"stp 0x3000 0x5000 AD  set permission bits A and D from va=0x3000 to va=0x5000",
				"stp 0x3000 100 AD     set permission bits A and D of 100 virtual pages from va=0x3000",
				"stp 0x3000 AD         set permission bits A and D of va=0x3000 only",
				"letters: G D A C T U W (P is accepted but never modified)",
			},
			Func: cmdSetPermissions,
		},
		{
			Name: "clp",
			Desc: "Clear page permissions",
			Usage: []string{
				"clp 0x3000 0x5000 AD  clear permission bits A and D from va=0x3000 to va=0x5000",
				"clp 0x3000 100 AD     clear permission bits A and D of 100 virtual pages from va=0x3000",
				"clp 0x3000 AD         clear permission bits A and D of va=0x3000 only",
				"letters: G D A C T U W (P is accepted but never modified)",
			},
			Func: cmdClearPermissions,
		},
		{
			Name: "exit",
			Desc: "Leave the kernel monitor",
			Func: cmdExit,
		},
	}
}

func cmdHelp(m *Monitor, _ []string) *kernel.Error {
	for _, cmd := range m.commands {
		kfmt.Fprintf(m.out, "%s - %s\n", cmd.Name, cmd.Desc)
	}
	return nil
}

func cmdKernInfo(m *Monitor, _ []string) *kernel.Error {
	l := m.layout

	kfmt.Fprintf(m.out, "Special kernel symbols:\n")
	kfmt.Fprintf(m.out, "  _start                  %8x (phys)\n", l.Start)
	kfmt.Fprintf(m.out, "  entry  %8x (virt)  %8x (phys)\n", l.Entry, l.Entry-l.KernBase)
	kfmt.Fprintf(m.out, "  etext  %8x (virt)  %8x (phys)\n", l.Etext, l.Etext-l.KernBase)
	kfmt.Fprintf(m.out, "  edata  %8x (virt)  %8x (phys)\n", l.Edata, l.Edata-l.KernBase)
	kfmt.Fprintf(m.out, "  end    %8x (virt)  %8x (phys)\n", l.End, l.End-l.KernBase)

	var footprint uintptr
	if l.End > l.Entry {
		footprint = mem.AlignUp(l.End-l.Entry, uintptr(mem.Kb)) / uintptr(mem.Kb)
	}
	kfmt.Fprintf(m.out, "Kernel executable memory footprint: %dKB\n", footprint)
	return nil
}

func cmdShowMappings(m *Monitor, argv []string) *kernel.Error {
	rng, err := ResolveRange(argv[1:])
	if err != nil {
		return err
	}

	WriteReport(m.out, m.pdt, rng)
	return nil
}

func cmdSetPermissions(m *Monitor, argv []string) *kernel.Error {
	return m.changePermissions(argv, OpSet)
}

func cmdClearPermissions(m *Monitor, argv []string) *kernel.Error {
	return m.changePermissions(argv, OpClear)
}

// changePermissions handles "<cmd> <range args...> <letters>" and prints the
// updated mappings once the change has been applied.
func (m *Monitor) changePermissions(argv []string, op Operation) *kernel.Error {
	if len(argv) < 3 {
		return ErrUsage
	}

	rng, err := ResolveRange(argv[1 : len(argv)-1])
	if err != nil {
		return err
	}

	mask, err := ParseMask(argv[len(argv)-1])
	if err != nil {
		return err
	}

	updated, err := ApplyPermissions(m.pdt, rng, mask, op)
	if err != nil {
		return err
	}

	if op == OpSet {
		kfmt.Fprintf(m.out, "Permission has been updated:")
	} else {
		kfmt.Fprintf(m.out, "Permission has been cleared:")
	}
	kfmt.Fprintf(m.out, " [%s] on %d of %d pages\n", DescribeFlags(mask), updated, rng.Count)

	WriteReport(m.out, m.pdt, rng)
	return nil
}

func cmdExit(_ *Monitor, _ []string) *kernel.Error {
	return errExit
}
