package main

import (
	"fmt"
	"io"
	"os"

	"github.com/KyeeHuang/mit-jos/kernel/kfmt"
)

var (
	// stdin and stdout are replaced by tests.
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout

	exitFn = os.Exit
)

// attachConsole registers w as the kfmt output sink. Output produced before a
// console was attached is replayed to w first.
func attachConsole(w io.Writer) {
	kfmt.SetOutputSink(w)
}

// Fatalf writes a message to stderr and exits with error code 1.
func Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	exitFn(1)
}
