// Package memorylog provides an in-process, crash-survivable log buffer:
// a single process-wide region of memory that concurrent goroutines can
// append small records into, so that the buffer can be dumped to disk and
// forensically read back even after a crash that never ran a clean
// shutdown. Every append takes the mutex of the holder shard its
// goroutine's processor maps to; that mutex is uncontended unless two
// goroutines resolve to the same shard at once, in which case one waits
// for the other. Write copies bytes without allocating; FormatWrite
// renders through fmt.Sprintf, which allocates.
//
// The five public operations are Initialize, Write, FormatWrite, Dump,
// and Finalize. Each reports success or failure as a plain bool and
// nothing else: a writer on the hot path gets no error value to inspect,
// no log line to read, because producing either would itself cost time
// and allocation that this package's only reason to exist is to avoid.
// The internal/scan package and the memlogctl command line show what a
// dump contains and how many writes were committed or dropped; neither
// reports why an individual call failed.
package memorylog
