// Package chunkpool implements the thread-local chunk ownership and
// record-append protocol layered over the chunk ring: fixed-size memory
// chunks handed out from a shared pool, each owned exclusively by whichever
// goroutine is currently appending into it.
package chunkpool

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"

	"github.com/agrianius/memorylog/internal/ring"
)

// RecordAlignment is the byte boundary every record (prefix included)
// starts on.
const RecordAlignment = 16

// RecordPrefixSize is the width of the magic commit prefix stamped before
// every record's payload.
const RecordPrefixSize = 16

// MinChunkSize is one prefix plus a two-byte minimum payload, mirroring
// the source library this package is a port of. initialize rejects any
// chunk_size that is not strictly greater than it.
const MinChunkSize = RecordPrefixSize + 2

// Chunk is a fixed-size region of the backing buffer together with the
// bookkeeping needed to append records into it. The bookkeeping lives in
// this ordinary Go struct rather than physically overlaid at the front of
// region's bytes: nothing but a Chunk's current holder ever touches it, so
// there is no reason to fight the memory-managed runtime for a spot inside
// region to store one integer. region itself holds only prefixes and
// payload bytes, exactly as the data model requires.
type Chunk struct {
	region    []byte
	fillPoint int
}

// reset sets fillPoint to the first record-aligned offset, which for this
// package's zero-header-overhead layout is always offset zero.
func (c *Chunk) reset() {
	c.fillPoint = 0
}

// available returns the number of bytes remaining between fillPoint and
// the end of the chunk.
func (c *Chunk) available() int {
	return len(c.region) - c.fillPoint
}

// outOfSpace reports whether a record of n payload bytes (plus its
// prefix) cannot fit in the remaining space.
func (c *Chunk) outOfSpace(n int) bool {
	return n+RecordPrefixSize > c.available()
}

// advanceTo moves fillPoint to the record-aligned ceiling of p. It never
// moves fillPoint backward; callers only ever pass offsets past the
// current fillPoint.
func (c *Chunk) advanceTo(p int) {
	c.fillPoint = alignUp(p)
}

func alignUp(p int) int {
	const mask = RecordAlignment - 1
	return (p + mask) &^ mask
}

// PayloadCapacity returns the largest payload, in bytes, that could ever
// fit in a freshly reset chunk of the given size.
func PayloadCapacity(chunkSize int) int {
	return chunkSize - RecordPrefixSize
}

// chunkRing is the concrete ring type backing the pool: a bounded MPMC
// queue of *Chunk pointers.
type chunkRing = ring.Ring[Chunk]

// magicPrefix is stamped immediately before a record's payload once the
// payload bytes themselves are fully in place; it is the single signal a
// forensic reader uses to recognize a committed record.
var magicPrefix = [RecordPrefixSize]byte{
	'\n', 'i', 'P', 'a', 'o', '2', 'i', 'j', 'S', 'a', 'h', 'b', 'e', '0', 'F', ' ',
}

var (
	magicPrefixLo = binary.LittleEndian.Uint64(magicPrefix[0:8])
	magicPrefixHi = binary.LittleEndian.Uint64(magicPrefix[8:16])
)

// stampPrefix publishes the magic commit prefix into
// region[off:off+RecordPrefixSize] as two atomic 8-byte stores. The
// payload bytes the prefix points past have already been written in
// program order by this same goroutine; using atomic stores for the
// prefix itself, rather than a plain copy, is what makes that payload
// write visible-before-prefix to a dump running concurrently on another
// core. Each 8-byte half is stored atomically, so neither half is ever
// seen torn; a reader that runs between the two stores sees the first
// half of the magic without the second, which is not a valid prefix.
func stampPrefix(region []byte, off int) {
	lo := (*uint64)(unsafe.Pointer(&region[off]))
	hi := (*uint64)(unsafe.Pointer(&region[off+8]))
	atomic.StoreUint64(lo, magicPrefixLo)
	atomic.StoreUint64(hi, magicPrefixHi)
}
