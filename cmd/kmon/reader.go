package main

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/term"
)

// scriptReader feeds the monitor with lines read from a script. Empty lines
// and lines starting with '#' are skipped. If echo is set, each command is
// written to it after the prompt as if it had been typed.
type scriptReader struct {
	scanner *bufio.Scanner
	echo    io.Writer
}

func newScriptReader(r io.Reader, echo io.Writer) *scriptReader {
	return &scriptReader{scanner: bufio.NewScanner(r), echo: echo}
}

// ReadLine implements kmon.LineReader.
func (r *scriptReader) ReadLine(prompt string) (string, bool) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if trimmed := strings.TrimSpace(line); trimmed == "" || trimmed[0] == '#' {
			continue
		}

		if r.echo != nil {
			io.WriteString(r.echo, prompt+line+"\n")
		}
		return line, true
	}
	return "", false
}

// terminalReader reads lines from a terminal in raw mode with line editing
// and history.
type terminalReader struct {
	t *term.Terminal
}

// ReadLine implements kmon.LineReader.
func (r terminalReader) ReadLine(prompt string) (string, bool) {
	r.t.SetPrompt(prompt)
	line, err := r.t.ReadLine()
	if err != nil {
		return "", false
	}
	return line, true
}
