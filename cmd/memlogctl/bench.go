package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrianius/memorylog/internal/ring"
)

var (
	benchCapacity    int
	benchProducers   int
	benchConsumers   int
	benchPerProducer int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Drive the chunk ring in isolation and report throughput",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchCapacity, "capacity", 1<<16, "ring capacity")
	benchCmd.Flags().IntVar(&benchProducers, "producers", 4, "number of producer goroutines")
	benchCmd.Flags().IntVar(&benchConsumers, "consumers", 4, "number of consumer goroutines")
	benchCmd.Flags().IntVar(&benchPerProducer, "per-producer", 100000, "enqueue attempts per producer goroutine")
}

func runBench(cmd *cobra.Command, args []string) error {
	logger.Info("starting ring benchmark",
		zap.Int("capacity", benchCapacity),
		zap.Int("producers", benchProducers),
		zap.Int("consumers", benchConsumers),
		zap.Int("per_producer", benchPerProducer))

	r := ring.New[int](benchCapacity)
	values := make([]int, benchProducers*benchPerProducer)
	for i := range values {
		values[i] = i
	}

	var dequeued atomic.Int64
	start := time.Now()

	var producers sync.WaitGroup
	producers.Add(benchProducers)
	for p := 0; p < benchProducers; p++ {
		go func(p int) {
			defer producers.Done()
			for i := 0; i < benchPerProducer; i++ {
				v := &values[p*benchPerProducer+i]
				for !r.TryEnqueue(v) {
				}
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		producers.Wait()
		close(done)
	}()

	var consumers sync.WaitGroup
	consumers.Add(benchConsumers)
	for c := 0; c < benchConsumers; c++ {
		go func() {
			defer consumers.Done()
			for {
				if _, ok := r.TryDequeue(); ok {
					dequeued.Add(1)
					continue
				}
				select {
				case <-done:
					if _, ok := r.TryDequeue(); ok {
						dequeued.Add(1)
						continue
					}
					return
				default:
				}
			}
		}()
	}
	consumers.Wait()

	elapsed := time.Since(start)
	total := dequeued.Load()
	logger.Info("benchmark finished",
		zap.Int64("dequeued", total),
		zap.Duration("elapsed", elapsed))
	fmt.Printf("dequeued=%d elapsed=%s throughput=%.0f ops/s\n",
		total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}
