//go:build !linux && !darwin

package membuf

// newPlatform falls back to an ordinary heap slice on platforms this
// package has no mmap binding for. The buffer still behaves correctly;
// it simply loses the GC-exclusion and address-stability properties the
// mmap path provides.
func newPlatform(size int) (*Buffer, error) {
	return &Buffer{data: make([]byte, size)}, nil
}
