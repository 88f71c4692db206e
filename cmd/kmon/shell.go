package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/KyeeHuang/mit-jos/kernel/kmon"
)

var isTerminalFn = term.IsTerminal

// Shell implements subcommands.Command for the "shell" command.
type Shell struct{}

// Name implements subcommands.Command.Name.
func (*Shell) Name() string {
	return "shell"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Shell) Synopsis() string {
	return "start an interactive kernel monitor session"
}

// Usage implements subcommands.Command.Usage.
func (*Shell) Usage() string {
	return `shell - start an interactive kernel monitor session.

Type 'help' at the K> prompt for a list of commands and 'exit' or ^D to quit.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Shell) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Shell) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	g := args[0].(*globals)
	m := g.mustMachine()
	if m == nil {
		return subcommands.ExitFailure
	}

	file, ok := stdin.(*os.File)
	if !ok || !isTerminalFn(int(file.Fd())) {
		g.log.Debug("stdin is not a terminal; reading commands line by line")
		attachConsole(stdout)
		return runMonitor(g, m.Monitor(nil), newScriptReader(stdin, nil))
	}

	state, err := term.MakeRaw(int(file.Fd()))
	if err != nil {
		Fatalf("error switching terminal to raw mode: %v", err)
		return subcommands.ExitFailure
	}
	defer term.Restore(int(file.Fd()), state)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{stdin, stdout}, kmon.Prompt)

	if width, height, err := term.GetSize(int(file.Fd())); err == nil {
		t.SetSize(width, height)
	}

	attachConsole(t)
	return runMonitor(g, m.Monitor(nil), terminalReader{t: t})
}

// runMonitor runs mon until r is exhausted or the exit command is issued.
func runMonitor(g *globals, mon *kmon.Monitor, r kmon.LineReader) subcommands.ExitStatus {
	if err := mon.Run(r); err != nil {
		g.log.WithField("module", err.Module).Error(err.Message)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
