package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
)

// Layout implements subcommands.Command for the "layout" command.
type Layout struct{}

// Name implements subcommands.Command.Name.
func (*Layout) Name() string {
	return "layout"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Layout) Synopsis() string {
	return "print the physical memory map and kernel symbols of the machine"
}

// Usage implements subcommands.Command.Usage.
func (*Layout) Usage() string {
	return `layout - print the physical memory map and kernel symbols of the machine.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Layout) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Layout) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m := args[0].(*globals).mustMachine()
	if m == nil {
		return subcommands.ExitFailure
	}

	attachConsole(stdout)
	m.PrintMemoryMap(kfmt.Writer())
	m.Monitor(nil).RunCmd("kerninfo")
	return subcommands.ExitSuccess
}
