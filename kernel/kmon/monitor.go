// Package kmon implements an interactive kernel monitor that can inspect and
// modify the page mappings of the active page directory.
package kmon

import (
	"io"

	"github.com/KyeeHuang/mit-jos/kernel"
	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
	"github.com/KyeeHuang/mit-jos/kernel/sync"
)

const (
	// Prompt is displayed by the line reader before each command.
	Prompt = "K> "

	// MaxArgs bounds the argv array of a command line, including the
	// command name. Lines need fewer than MaxArgs tokens.
	MaxArgs = 16

	whitespace = " \t\r\n"
)

var (
	// monitorLock serializes command execution across all monitor
	// sessions. It covers the page directory accesses of a command as well
	// as its output, since kfmt formats numbers in a shared buffer.
	monitorLock sync.Spinlock
)

// LineReader is implemented by console input sources. ReadLine displays
// prompt and returns the next line of input. It returns false when no more
// input is available.
type LineReader interface {
	ReadLine(prompt string) (string, bool)
}

// KernelLayout describes the addresses of the linker symbols that delimit
// the kernel image. All fields are virtual addresses except Start which is
// the physical load address.
type KernelLayout struct {
	Start, Entry, Etext, Edata, End uintptr

	// KernBase is the virtual address where physical memory is mapped.
	KernBase uintptr
}

// Config bundles the collaborators of a Monitor.
type Config struct {
	// Directory is the page directory the monitor inspects and modifies.
	Directory *vmm.PageDirectory

	// Output receives the monitor output. If nil, output is sent to the
	// kfmt output sink.
	Output io.Writer

	// Layout is displayed by the kerninfo command.
	Layout KernelLayout
}

// Monitor is a command interpreter bound to a single page directory.
type Monitor struct {
	pdt      *vmm.PageDirectory
	out      io.Writer
	layout   KernelLayout
	hint     kfmt.PrefixWriter
	commands []Command
}

// New returns a Monitor that uses the collaborators in cfg.
func New(cfg Config) *Monitor {
	m := &Monitor{
		pdt:      cfg.Directory,
		out:      cfg.Output,
		layout:   cfg.Layout,
		commands: builtinCommands(),
	}

	if m.out == nil {
		m.out = kfmt.Writer()
	}
	m.hint = kfmt.PrefixWriter{Sink: m.out, Prefix: []byte("  ")}
	return m
}

// Commands returns the commands understood by the monitor.
func (m *Monitor) Commands() []Command {
	return m.commands
}

// Run prints the welcome banner and executes commands read from r until r
// runs out of input or a command requests the monitor to exit. Run returns
// vmm.ErrNoDirectory without reading any input if the monitor is not
// attached to a valid page directory.
func (m *Monitor) Run(r LineReader) *kernel.Error {
	if !m.pdt.Valid() {
		return vmm.ErrNoDirectory
	}

	monitorLock.Acquire()
	kfmt.Fprintf(m.out, "Welcome to the kernel monitor!\n")
	kfmt.Fprintf(m.out, "Type 'help' for a list of commands.\n")
	monitorLock.Release()

	for {
		line, ok := r.ReadLine(Prompt)
		if !ok {
			return nil
		}

		if !m.RunCmd(line) {
			return nil
		}
	}
}

// RunCmd tokenizes line, executes the matching command and reports any
// error it returns. RunCmd returns false if the monitor should exit.
//
// Commands from concurrent sessions never interleave; RunCmd must not be
// called from within a command.
func (m *Monitor) RunCmd(line string) bool {
	monitorLock.Acquire()
	defer monitorLock.Release()

	argv, err := Tokenize(line)
	if err != nil {
		kfmt.Fprintf(m.out, "%s (max %d)\n", err.Message, MaxArgs)
		return true
	}

	if len(argv) == 0 {
		return true
	}

	cmd := m.lookup(argv[0])
	if cmd == nil {
		kfmt.Fprintf(m.out, "Unknown command '%s'\n", argv[0])
		return true
	}

	switch err = cmd.Func(m, argv); err {
	case nil:
	case errExit:
		return false
	default:
		kfmt.Fprintf(m.out, "[%s] %s\n", err.Module, err.Message)
		m.printUsage(cmd)
	}

	return true
}

// lookup returns the command called name or nil if no such command exists.
func (m *Monitor) lookup(name string) *Command {
	for index := range m.commands {
		if m.commands[index].Name == name {
			return &m.commands[index]
		}
	}
	return nil
}

// printUsage lists the usage examples of cmd indented below the error.
func (m *Monitor) printUsage(cmd *Command) {
	if len(cmd.Usage) == 0 {
		return
	}

	kfmt.Fprintf(m.out, "Please pass arguments in correct formats, for example:\n")
	m.hint.Reset()
	for _, example := range cmd.Usage {
		kfmt.Fprintf(&m.hint, "%s\n", example)
	}
}

// Tokenize splits line into whitespace-separated arguments. Lines with
// MaxArgs or more arguments are rejected.
func Tokenize(line string) ([]string, *kernel.Error) {
	var argv []string

	for pos := 0; pos < len(line); {
		// gobble whitespace
		for pos < len(line) && isWhitespace(line[pos]) {
			pos++
		}
		if pos == len(line) {
			break
		}

		if len(argv) == MaxArgs-1 {
			return nil, errTooManyArgs
		}

		// save and scan past next arg
		start := pos
		for pos < len(line) && !isWhitespace(line[pos]) {
			pos++
		}
		argv = append(argv, line[start:pos])
	}

	return argv, nil
}

func isWhitespace(ch byte) bool {
	for i := 0; i < len(whitespace); i++ {
		if whitespace[i] == ch {
			return true
		}
	}
	return false
}
