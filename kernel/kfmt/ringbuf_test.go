package kfmt

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	var (
		buf    bytes.Buffer
		expStr = "the big brown fox jumped over the lazy dog"
		rb     ringBuffer
	)

	t.Run("read/write", func(t *testing.T) {
		rb = ringBuffer{}
		n, err := rb.Write([]byte(expStr))
		if err != nil {
			t.Fatal(err)
		}

		if n != len(expStr) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(expStr), n)
		}

		if rb.Len() != len(expStr) {
			t.Fatalf("expected buffer to hold %d bytes; got %d", len(expStr), rb.Len())
		}

		if got := readByteByByte(&buf, &rb); got != expStr {
			t.Fatalf("expected to read %q; got %q", expStr, got)
		}
	})

	t.Run("write moves read pointer", func(t *testing.T) {
		rb = ringBuffer{}
		rb.Write([]byte(strings.Repeat("x", ringBufferSize)))
		rb.Write([]byte(expStr))

		got := readByteByByte(&buf, &rb)
		if len(got) != ringBufferSize {
			t.Fatalf("expected to read %d bytes; got %d", ringBufferSize, len(got))
		}

		if !strings.HasSuffix(got, expStr) {
			t.Fatalf("expected buffer contents to end with %q", expStr)
		}
	})

	t.Run("with io.WriteTo", func(t *testing.T) {
		rb = ringBuffer{rIndex: ringBufferSize - 2}
		n, err := rb.Write([]byte(expStr))
		if err != nil {
			t.Fatal(err)
		}

		if n != len(expStr) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(expStr), n)
		}

		var buf bytes.Buffer
		io.Copy(&buf, &rb)

		if got := buf.String(); got != expStr {
			t.Fatalf("expected to read %q; got %q", expStr, got)
		}
	})
}

func readByteByByte(buf *bytes.Buffer, r io.Reader) string {
	buf.Reset()
	var b = make([]byte, 1)
	for {
		_, err := r.Read(b)
		if err == io.EOF {
			break
		}

		buf.Write(b)
	}
	return buf.String()
}
