// Package membuf allocates the single large backing buffer a log buffer's
// chunks are carved out of. On platforms that support it, the buffer is an
// anonymous mmap region rather than a heap slice: the Go garbage collector
// never scans it (it holds no pointers, only raw record bytes, but a
// multi-hundred-megabyte slice is still GC overhead its owner should not
// have to pay for) and its address is stable for the buffer's entire
// lifetime, matching a process-lifetime-scoped arena in the source this
// package's design is grounded in.
package membuf

import "fmt"

// PageSize is the unit a Buffer is pre-faulted in. Touching one byte per
// PageSize bytes at allocation time forces every page of the buffer
// resident immediately, so the first write into any chunk never stalls on
// a page fault.
const PageSize = 4096

// Buffer is a fixed-size, pre-faulted region of raw bytes.
type Buffer struct {
	data    []byte
	release func()
}

// New allocates a Buffer of exactly size bytes. size must be positive.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("membuf: size must be positive, got %d", size)
	}
	b, err := newPlatform(size)
	if err != nil {
		return nil, fmt.Errorf("membuf: allocate %d bytes: %w", size, err)
	}
	prefault(b.data)
	return b, nil
}

// Bytes returns the buffer's backing slice. The slice is valid until
// Release is called.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the buffer's fixed size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Release returns the buffer's memory to the operating system. The
// buffer must not be used afterward.
func (b *Buffer) Release() {
	if b.release != nil {
		b.release()
		b.release = nil
	}
	b.data = nil
}

func prefault(data []byte) {
	for off := 0; off < len(data); off += PageSize {
		data[off] = 0
	}
}
