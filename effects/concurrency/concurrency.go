package concurrency

import (
	"context"
	"fmt"
	"sync"

	"github.com/on-the-ground/collatz_ive_go/effects"
	effectmodel "github.com/on-the-ground/collatz_ive_go/effects/internal/model"
	"github.com/on-the-ground/collatz_ive_go/effects/log"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// It allows `Effect(ctx, ...)` to spawn goroutines under a managed scope.
//
//   - Each child runs on a context cancelled together with ctx.
//   - Panics in children are recovered and logged through the log effect.
//   - Ending the handler blocks until every child has returned.
//   - The returned function gives back the context without the handler.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{parent: ctx}

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnConcurrentChildren,
		func() {
			sv.waitChildren(ctx)
		},
	)
}

// Effect spawns every fn in its own goroutine under the concurrency handler in ctx.
// The spawn happens even if ctx is already cancelled; the children then see a
// cancelled context. Panics if no handler is installed.
func Effect(ctx context.Context, fns ...func(context.Context)) {
	effects.FireAndForgetEffect(context.WithoutCancel(ctx), effectmodel.EffectConcurrency, Payload(fns))
}

type Payload []func(context.Context)

// supervisor tracks the children spawned by one concurrency scope.
type supervisor struct {
	parent context.Context
	wg     sync.WaitGroup

	mu      sync.Mutex
	cancels []context.CancelFunc
}

func (s *supervisor) track(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()
}

// spawnConcurrentChildren starts each function in its own goroutine and
// returns once all of them are running.
func (s *supervisor) spawnConcurrentChildren(
	handlerCtx context.Context,
	functions Payload,
) {
	ready := sync.WaitGroup{}

	for i, fn := range functions {
		childCtx, cancel := context.WithCancel(s.parent)
		s.track(cancel)
		s.wg.Add(1)
		ready.Add(1)
		go func(f func(context.Context), ctx context.Context) {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Effect(handlerCtx, log.LogError, "panic in child routine", map[string]interface{}{
						"routine": i,
						"error":   fmt.Sprint(r),
					})
				}
			}()
			ready.Done()
			f(ctx)
		}(fn, childCtx)
	}

	ready.Wait()
}

// waitChildren blocks until every child has returned, then releases their contexts.
func (s *supervisor) waitChildren(ctx context.Context) {
	log.Effect(ctx, log.LogDebug, "waiting for all routines to finish", nil)
	s.wg.Wait()

	s.mu.Lock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.mu.Unlock()
	log.Effect(ctx, log.LogDebug, "all routines finished", nil)
}
