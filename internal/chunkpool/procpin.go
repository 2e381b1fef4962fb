package chunkpool

import _ "unsafe" // for go:linkname

// runtimeProcPin/runtimeProcUnpin reach into the runtime's own processor
// pinning used by its per-P caches, giving this package a cheap, good-enough
// approximation of thread-local affinity in a language that has no real
// TLS. They are a hint for shard selection only; nothing here depends on
// the pin being held past the single shard lookup it is used for.
//
//go:linkname runtimeProcPin runtime.procPin
func runtimeProcPin() int

//go:linkname runtimeProcUnpin runtime.procUnpin
func runtimeProcUnpin()
