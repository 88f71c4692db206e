package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
	"github.com/KyeeHuang/mit-jos/kernel/kmon"
)

// Run implements subcommands.Command for the "run" command.
type Run struct {
	script string
	quiet  bool
}

// Name implements subcommands.Command.Name.
func (*Run) Name() string {
	return "run"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Run) Synopsis() string {
	return "execute kernel monitor commands non-interactively"
}

// Usage implements subcommands.Command.Usage.
func (*Run) Usage() string {
	return `run [flags] [<command>...] - execute kernel monitor commands.

Each argument is executed as a separate command line, for example:

	kmon run "smps 0xf0000000 4" "stp 0xf0000000 AD"

If -script is set, commands are read from the file instead ("-" reads stdin).
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Run) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.script, "script", "", "read commands from this file, one per line.")
	f.BoolVar(&r.quiet, "quiet", false, "do not echo commands before their output.")
}

// Execute implements subcommands.Command.Execute.
func (r *Run) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if (r.script == "") == (f.NArg() == 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}

	g := args[0].(*globals)
	m := g.mustMachine()
	if m == nil {
		return subcommands.ExitFailure
	}

	attachConsole(stdout)

	echo := kfmt.Writer()
	if r.quiet {
		echo = nil
	}

	var reader *scriptReader
	switch r.script {
	case "":
		reader = newScriptReader(strings.NewReader(strings.Join(f.Args(), "\n")), echo)
	case "-":
		reader = newScriptReader(stdin, echo)
	default:
		file, err := os.Open(r.script)
		if err != nil {
			Fatalf("error opening script: %v", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		reader = newScriptReader(file, echo)
	}

	g.log.WithField("script", r.script).Debug("running monitor commands")

	// Commands are executed directly so that the banner is not printed.
	mon := m.Monitor(nil)
	for {
		line, ok := reader.ReadLine(kmon.Prompt)
		if !ok || !mon.RunCmd(line) {
			break
		}
	}

	return subcommands.ExitSuccess
}
