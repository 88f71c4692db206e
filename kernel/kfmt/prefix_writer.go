package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line. The monitor uses it to indent usage
// hints below a command diagnostic.
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	midLine bool
}

// Write writes len(p) bytes from p to the underlying data stream and returns
// back the number of bytes written. The injected prefix is not included in
// the number of written bytes returned by this method.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written, lineStart int

	for index := 0; index < len(p); index++ {
		if !w.midLine {
			w.Sink.Write(w.Prefix)
			w.midLine = true
		}

		if p[index] != '\n' {
			continue
		}

		n, err := w.Sink.Write(p[lineStart : index+1])
		written += n
		if err != nil {
			return written, err
		}
		lineStart = index + 1
		w.midLine = false
	}

	if lineStart < len(p) {
		n, err := w.Sink.Write(p[lineStart:])
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// Reset forgets any partially written line so that the next write starts
// with a prefix.
func (w *PrefixWriter) Reset() {
	w.midLine = false
}
