package kfmt

import "io"

// ringBufferSize defines size of the ring buffer that buffers early Printf
// output. Its default size is selected so it can hold the welcome banner and
// a full page of monitor output. The ring buffer size must always be a power
// of 2.
const ringBufferSize = 2048

// ringBuffer captures Printf output while no output sink is attached. Once
// full, the oldest bytes are overwritten.
type ringBuffer struct {
	buffer [ringBufferSize]byte

	// rIndex points to the oldest unread byte; count tracks the number of
	// unread bytes.
	rIndex, count int
}

// Write writes len(p) bytes from p to the ringBuffer.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[(rb.rIndex+rb.count)&(ringBufferSize-1)] = b
		if rb.count == ringBufferSize {
			rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
			continue
		}
		rb.count++
	}

	return len(p), nil
}

// Read reads up to len(p) bytes into p. It returns the number of bytes read (0
// <= n <= len(p)) and io.EOF once the buffer has been drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.count == 0 {
		return 0, io.EOF
	}

	// Copy the contiguous block that starts at rIndex; the wrapped-around
	// part is returned by the next call.
	n := rb.count
	if tail := ringBufferSize - rb.rIndex; tail < n {
		n = tail
	}
	if len(p) < n {
		n = len(p)
	}

	copy(p, rb.buffer[rb.rIndex:rb.rIndex+n])
	rb.rIndex = (rb.rIndex + n) & (ringBufferSize - 1)
	rb.count -= n

	return n, nil
}

// Len returns the number of unread bytes.
func (rb *ringBuffer) Len() int {
	return rb.count
}
