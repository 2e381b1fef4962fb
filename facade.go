package memorylog

import (
	"sync/atomic"

	"github.com/agrianius/memorylog/internal/chunkpool"
	"github.com/agrianius/memorylog/internal/membuf"
)

// context is one generation's worth of live state: the backing buffer and
// the chunk pool carved out of it. At most one is ever live at a time,
// installed behind globalCtx.
type context struct {
	buf  *membuf.Buffer
	pool *chunkpool.Pool
}

var globalCtx atomic.Pointer[context]

// Initialize allocates a totalSize-byte buffer split into totalSize/
// chunkSize fixed-size chunks and installs it as the process-wide active
// log. It fails, leaving any previously active log untouched, if the
// geometry is invalid, allocation fails, or a log is already active.
func Initialize(totalSize, chunkSize int) bool {
	return initialize(totalSize, chunkSize) == nil
}

func initialize(totalSize, chunkSize int) error {
	if chunkSize <= chunkpool.MinChunkSize {
		return errInvalidGeometry
	}
	if totalSize < chunkSize || totalSize%chunkSize != 0 {
		return errInvalidGeometry
	}

	buf, err := membuf.New(totalSize)
	if err != nil {
		return errAllocationFailed
	}

	ctx := &context{
		buf:  buf,
		pool: chunkpool.NewPool(buf.Bytes(), chunkSize),
	}

	if !globalCtx.CompareAndSwap(nil, ctx) {
		buf.Release()
		return errAlreadyActive
	}
	return nil
}

// Finalize tears down the active log, if any, and releases its backing
// buffer. It also releases the calling goroutine's own chunk holder;
// other goroutines' holders are left untouched, matching a thread-local
// that only the owning thread can reset. Finalize is idempotent: calling
// it with no active log is a silent no-op.
func Finalize() {
	ctx := globalCtx.Swap(nil)
	if ctx == nil {
		return
	}
	chunkpool.Reset(chunkpool.Current(), ctx.pool)
	ctx.buf.Release()
}

// Write appends a raw record of exactly len(payload) bytes into the
// active log, returning true iff the record was committed.
func Write(payload []byte) bool {
	return write(payload) == nil
}

func write(payload []byte) error {
	ctx := globalCtx.Load()
	if ctx == nil {
		return errNotInitialized
	}
	if len(payload) > ctx.pool.PayloadLimit() {
		return errRecordTooLarge
	}
	h := chunkpool.Current()
	if !ctx.pool.AppendRaw(h, payload) {
		return errNoFreeChunks
	}
	return nil
}

// FormatWrite renders format and args with a printf-style template and
// appends the result as a record, returning true iff the record was
// committed. A rendering too large for even a freshly acquired chunk is
// dropped, matching write's behavior for an oversize payload.
func FormatWrite(format string, args ...any) bool {
	return formatWrite(defaultRenderer{}, format, args) == nil
}

func formatWrite(r Renderer, format string, args []any) error {
	ctx := globalCtx.Load()
	if ctx == nil {
		return errNotInitialized
	}
	h := chunkpool.Current()

	var renderErr error
	ok := ctx.pool.AppendFormatted(h, func(dst []byte) (int, bool) {
		n, ok := r.Render(dst, format, args...)
		if !ok {
			renderErr = errRenderFailed
		}
		return n, ok
	})
	if renderErr != nil {
		return renderErr
	}
	if !ok {
		return errNoFreeChunks
	}
	return nil
}

// Dump writes the entire backing buffer, byte for byte, to path,
// truncating any existing file at that path. It returns true iff the
// write succeeded; the dumped bytes reflect whatever state the buffer
// happened to be in at the moment of the read and may include records
// mid-commit.
func Dump(path string) bool {
	return dump(path) == nil
}
