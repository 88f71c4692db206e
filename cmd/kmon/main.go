// Command kmon runs the kernel monitor against a simulated machine.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-errors/errors"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/KyeeHuang/mit-jos/internal/machine"
)

var (
	debug   = flag.Bool("debug", false, "enable debug logging.")
	fixture = flag.String("machine", "", "path to a .toml or .yaml machine description; the built-in JOS machine is used if empty.")
)

// globals is passed to every subcommand.
type globals struct {
	fixture string
	log     *logrus.Logger
}

// machine builds the simulated machine described by the -machine flag.
func (g *globals) machine() (*machine.Machine, error) {
	cfg := machine.DefaultConfig()
	if g.fixture != "" {
		var err error
		if cfg, err = machine.LoadConfig(g.fixture); err != nil {
			return nil, err
		}
	}

	m, err := machine.New(cfg, g.log)
	if err != nil {
		return nil, err
	}

	g.log.WithField("machine", g.fixtureName()).Debug("machine ready")
	return m, nil
}

func (g *globals) fixtureName() string {
	if g.fixture == "" {
		return "builtin"
	}
	return g.fixture
}

// mustMachine is like machine but terminates the process on failure.
func (g *globals) mustMachine() *machine.Machine {
	m, err := g.machine()
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			g.log.Debug(e.ErrorStack())
		}
		Fatalf("error creating machine: %v", err)
	}
	return m
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func registerCommands(cdr *subcommands.Commander) {
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")

	cdr.Register(new(Shell), "")
	cdr.Register(new(Run), "")
	cdr.Register(new(Layout), "")
}

func main() {
	registerCommands(subcommands.DefaultCommander)

	// All subcommands must be registered before flag parsing.
	flag.Parse()

	g := &globals{
		fixture: *fixture,
		log:     newLogger(*debug),
	}

	os.Exit(int(subcommands.Execute(context.Background(), g)))
}
