package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/collatz_ive_go/effects/internal/model"
)

// --- common interface ---

type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan T
	// Done is closed once every worker has stopped.
	Done() <-chan struct{}
}

// runWorker handles messages until ctx is cancelled, then handles whatever is
// still buffered in ch and returns.
func runWorker[T any](ctx context.Context, ch chan T, handleFn func(context.Context, T)) {
	for {
		select {
		case msg := <-ch:
			handleFn(ctx, msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-ch:
					handleFn(ctx, msg)
				default:
					return
				}
			}
		}
	}
}

// --- single queue ---

type singleQueue[T any] struct {
	effectCh chan T
	done     chan struct{}
}

func (q singleQueue[T]) GetChannelOf(_ T) chan T {
	return q.effectCh
}

func (q singleQueue[T]) Done() <-chan struct{} {
	return q.done
}

func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	q := singleQueue[T]{
		effectCh: make(chan T, bufferSize),
		done:     make(chan struct{}),
	}
	ready := make(chan struct{})
	go func() {
		defer close(q.done)
		close(ready)
		runWorker(ctx, q.effectCh, handleFn)
	}()
	<-ready
	return q
}

// --- partitioned queue ---

type partitionedQueue[T effectmodel.Partitionable] struct {
	effectChs []chan T
	done      chan struct{}
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan T {
	idx := getIndexByHash(msg, len(pq.effectChs))
	return pq.effectChs[idx]
}

func (pq partitionedQueue[T]) Done() <-chan struct{} {
	return pq.done
}

func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	pq := partitionedQueue[T]{
		effectChs: make([]chan T, numWorkers),
		done:      make(chan struct{}),
	}
	ready := sync.WaitGroup{}
	running := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		ready.Add(1)
		running.Add(1)
		ch := make(chan T, bufferSize)
		go func(ch chan T) {
			defer running.Done()
			ready.Done()
			runWorker(ctx, ch, handleFn)
		}(ch)
		pq.effectChs[i] = ch
	}
	ready.Wait()
	go func() {
		running.Wait()
		close(pq.done)
	}()
	return pq
}
