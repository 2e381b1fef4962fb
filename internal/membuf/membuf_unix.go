//go:build linux || darwin

package membuf

import "golang.org/x/sys/unix"

func newPlatform(size int) (*Buffer, error) {
	data, err := unix.Mmap(
		-1, 0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, err
	}
	b := &Buffer{data: data}
	b.release = func() {
		unix.Munmap(data)
	}
	return b, nil
}
