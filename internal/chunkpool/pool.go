package chunkpool

import (
	"sync/atomic"

	"github.com/agrianius/memorylog/internal/ring"
)

// nextGeneration assigns every Pool a distinct, never-reused id, so a
// Holder can tell whether a chunk it cached belongs to the Pool asking
// for it or to some earlier, already-torn-down one.
var nextGeneration atomic.Uint64

// Pool owns the fixed-size chunks carved out of a single backing buffer
// and the ring those chunks circulate through. It is the Go counterpart
// of the C++ source's GlobalContext plus its embedded RingPtrQueue: one
// Pool exists per successful initialize/finalize generation.
type Pool struct {
	chunkSize  int
	generation uint64
	ring       *chunkRing
	chunks     []Chunk
}

// NewPool slices buf into chunks of chunkSize bytes (len(buf) must be an
// exact multiple of chunkSize; the caller validates geometry before
// calling this) and enqueues every one of them into a freshly constructed,
// initially empty ring.
func NewPool(buf []byte, chunkSize int) *Pool {
	n := len(buf) / chunkSize
	p := &Pool{
		chunkSize:  chunkSize,
		generation: nextGeneration.Add(1),
		ring:       ring.New[Chunk](n),
		chunks:     make([]Chunk, n),
	}
	for i := range p.chunks {
		p.chunks[i] = Chunk{region: buf[i*chunkSize : (i+1)*chunkSize : (i+1)*chunkSize]}
		if !p.ring.TryEnqueue(&p.chunks[i]) {
			// Capacity was sized to exactly n and nothing else can be
			// contending yet: this cannot happen.
			panic("chunkpool: unexpected full ring while seeding pool")
		}
	}
	return p
}

// ChunkSize returns the fixed chunk size this pool was constructed with.
func (p *Pool) ChunkSize() int {
	return p.chunkSize
}

// PayloadLimit returns the largest payload a single record may carry in
// this pool's chunks (chunk_size - prefix size).
func (p *Pool) PayloadLimit() int {
	return PayloadCapacity(p.chunkSize)
}

// getLocked returns h's currently held chunk, or dequeues and resets a
// fresh one from the ring if h holds none. A chunk left over from a Pool
// generation other than p's is never returned: it is dropped in place,
// since its backing buffer may already have been released by that
// generation's finalize. getLocked returns nil iff the ring is empty. The
// caller must hold h.mu.
func (p *Pool) getLocked(h *Holder) *Chunk {
	if h.chunk != nil && h.gen == p.generation {
		return h.chunk
	}
	h.chunk = nil
	c, ok := p.ring.TryDequeue()
	if !ok {
		return nil
	}
	c.reset()
	h.chunk = c
	h.gen = p.generation
	return h.chunk
}

// Release returns h's currently held chunk to this pool's ring, but only
// if that chunk actually belongs to p's generation; a chunk left over
// from an earlier generation is dropped instead of being enqueued into a
// ring it was never carved out of. Used by finalize to settle the calling
// goroutine's holder.
func (p *Pool) Release(h *Holder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.chunk != nil && h.gen == p.generation {
		p.ring.TryEnqueue(h.chunk)
	}
	h.chunk = nil
}

// AppendRaw copies payload into the calling holder's current (or freshly
// acquired) chunk, stamping the commit prefix once the bytes are in
// place. It does not validate payload against the pool's payload limit;
// the caller is expected to have checked that against PayloadLimit
// before calling, since that check does not need a chunk in hand.
// AppendRaw returns false when the ring yields no chunk, either on the
// initial acquisition or on the one permitted rotation, or when payload
// does not fit even in the freshly rotated chunk.
func (p *Pool) AppendRaw(h *Holder, payload []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := p.getLocked(h)
	if c == nil {
		return false
	}
	if c.outOfSpace(len(payload)) {
		c = p.rotateLocked(h)
		if c == nil || c.outOfSpace(len(payload)) {
			return false
		}
	}
	prefixSlot := c.fillPoint
	payloadSlot := prefixSlot + RecordPrefixSize
	clear(c.region[prefixSlot:payloadSlot])
	copy(c.region[payloadSlot:payloadSlot+len(payload)], payload)
	stampPrefix(c.region, prefixSlot)
	c.advanceTo(payloadSlot + len(payload))
	return true
}

// AppendFormatted implements the formatted variant of the protocol:
// render is invoked with the byte range available for the payload in the
// currently held (or freshly acquired) chunk; it must report the number
// of bytes the full rendering needed (which may exceed the slice handed
// to it) or false if rendering itself failed. If the rendering does not
// fit, one rotation to a fresh chunk is attempted and render is invoked
// a second time with that chunk's full capacity.
func (p *Pool) AppendFormatted(h *Holder, render func(dst []byte) (n int, ok bool)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := p.getLocked(h)
	if c == nil {
		return false
	}

	for attempt := 0; attempt < 2; attempt++ {
		prefixSlot := c.fillPoint
		payloadSlot := prefixSlot + RecordPrefixSize
		room := c.available() - RecordPrefixSize
		var dst []byte
		if room >= 0 {
			clear(c.region[prefixSlot:payloadSlot])
			dst = c.region[payloadSlot : payloadSlot+room : payloadSlot+room]
		}
		n, ok := render(dst)
		if !ok {
			return false
		}
		if n <= room {
			stampPrefix(c.region, prefixSlot)
			c.advanceTo(payloadSlot + n)
			return true
		}
		if attempt == 0 {
			fresh := p.rotateLocked(h)
			if fresh == nil {
				return false
			}
			c = fresh
			continue
		}
	}
	return false
}

// rotateLocked returns h's held chunk to the ring and acquires a fresh
// one, exactly as getLocked does for a holder with no chunk. By the time
// rotateLocked runs, h.chunk (if any) has already been through getLocked
// in this same call and so is guaranteed to belong to p's generation; it
// is always safe to enqueue it back into p.ring. The caller must hold
// h.mu; AppendRaw/AppendFormatted hold it across the whole append so that
// no other goroutine can observe this holder's chunk mid-record.
func (p *Pool) rotateLocked(h *Holder) *Chunk {
	if h.chunk != nil {
		p.ring.TryEnqueue(h.chunk)
		h.chunk = nil
	}
	c, ok := p.ring.TryDequeue()
	if !ok {
		return nil
	}
	c.reset()
	h.chunk = c
	h.gen = p.generation
	return h.chunk
}
