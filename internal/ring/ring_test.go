package ring

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRingBasics(t *testing.T) {
	r := New[int](4)

	a, b, c := 1, 2, 3
	if !r.TryEnqueue(&a) {
		t.Fatalf("TryEnqueue failed on empty ring")
	}
	if !r.TryEnqueue(&b) {
		t.Fatalf("TryEnqueue failed on non-full ring")
	}
	if !r.TryEnqueue(&c) {
		t.Fatalf("TryEnqueue failed on non-full ring")
	}

	got, ok := r.TryDequeue()
	if !ok {
		t.Fatalf("TryDequeue failed on non-empty ring")
	}
	if *got != a {
		t.Fatalf("expected %d, got %d", a, *got)
	}
}

func TestRingFullRejectsWithoutSideEffect(t *testing.T) {
	r := New[int](2)
	x, y, z := 1, 2, 3

	if !r.TryEnqueue(&x) || !r.TryEnqueue(&y) {
		t.Fatalf("expected both enqueues to succeed on capacity-2 ring")
	}
	if r.TryEnqueue(&z) {
		t.Fatalf("expected enqueue to fail once ring is full")
	}

	// The ring must still report exactly two elements afterward.
	got1, ok1 := r.TryDequeue()
	got2, ok2 := r.TryDequeue()
	if !ok1 || !ok2 {
		t.Fatalf("expected two elements to be dequeueable after a rejected enqueue")
	}
	if *got1+*got2 != x+y {
		t.Fatalf("unexpected contents after rejected enqueue: %d, %d", *got1, *got2)
	}
	if _, ok := r.TryDequeue(); ok {
		t.Fatalf("expected ring to be empty after draining both elements")
	}
}

func TestRingEmptyDequeueFails(t *testing.T) {
	r := New[int](1)
	if _, ok := r.TryDequeue(); ok {
		t.Fatalf("expected TryDequeue to fail on an empty ring")
	}
}

// TestRingMPMCStress exercises the literal S7 scenario: a ring of capacity
// 10^6, 5 producers each enqueueing 1000 distinct non-null pointers forming
// the arithmetic progression 1..5000, and 5 consumers draining until all
// producers are done and the ring is empty. The multiset sum of all
// dequeued pointer values must equal 5000*5001/2.
func TestRingMPMCStress(t *testing.T) {
	const (
		capacity     = 1000000
		numProducers = 5
		numConsumers = 5
		perProducer  = 1000
	)

	r := New[int](capacity)

	values := make([]int, numProducers*perProducer)
	for i := range values {
		values[i] = i + 1
	}

	var producers sync.WaitGroup
	producers.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func(p int) {
			defer producers.Done()
			for i := 0; i < perProducer; i++ {
				v := &values[p*perProducer+i]
				for !r.TryEnqueue(v) {
					// Capacity vastly exceeds total items; this should never
					// spin more than a handful of times under contention.
				}
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		producers.Wait()
		close(done)
	}()

	var sum atomic.Int64
	var consumers sync.WaitGroup
	consumers.Add(numConsumers)
	for c := 0; c < numConsumers; c++ {
		go func() {
			defer consumers.Done()
			for {
				if p, ok := r.TryDequeue(); ok {
					sum.Add(int64(*p))
					continue
				}
				select {
				case <-done:
					if p, ok := r.TryDequeue(); ok {
						sum.Add(int64(*p))
						continue
					}
					return
				default:
				}
			}
		}()
	}
	consumers.Wait()

	const total = numProducers * perProducer
	want := int64(total) * int64(total+1) / 2
	if sum.Load() != want {
		t.Fatalf("expected dequeued sum %d, got %d", want, sum.Load())
	}
}
