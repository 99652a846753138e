package effects

import (
	"context"

	"github.com/on-the-ground/collatz_ive_go/effects/internal/handlers"
	"github.com/on-the-ground/collatz_ive_go/effects/internal/helper"

	effectmodel "github.com/on-the-ground/collatz_ive_go/effects/internal/model"
)

// EffectEnum identifies a handler slot in the context.
// Packages outside effects declare their own enums as untyped string constants.
type EffectEnum = effectmodel.EffectEnum

// Partitionable payloads choose their worker by PartitionKey.
type Partitionable = effectmodel.Partitionable

// EffectScopeConfig sizes the queues and the worker count of a handler.
type EffectScopeConfig = effectmodel.EffectScopeConfig

// ResumableResult is what a resumable handler sends back for one payload.
type ResumableResult[T any] = effectmodel.ResumableResult[T]

// ErrNoEffectHandler is wrapped by lookups for an enum nobody registered.
var ErrNoEffectHandler = effectmodel.ErrNoEffectHandler

// NewEffectScopeConfig returns a config with non-positive values raised to 1.
func NewEffectScopeConfig(bufferSize, numWorkers int) EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
}

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler supports hash-based partitioning via PartitionKey(), and is suitable for effects
// like evaluation requests where payloads with the same key should land on the same worker.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P Partitionable, R any](
	ctx context.Context,
	config EffectScopeConfig,
	enum EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewPartitionableResumableHandler(
		ctx,
		effectmodel.NewEffectScopeConfig(config.BufferSize, config.NumWorkers),
		handleFn,
		td,
	)
	ctxWith := context.WithValue(ctx, enum, handler)

	return ctxWith, func() context.Context {
		handler.Close()
		return ctx
	}
}

// PerformResumableEffect sends a payload to the resumable effect handler and returns
// the channel the result will arrive on.
//
// The channel is closed without a value when ctx or the handler scope ends first,
// so receivers should check the second receive value.
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P Partitionable, R any](
	ctx context.Context,
	enum EffectEnum,
	payload P,
) <-chan ResumableResult[R] {
	handler := mustGetHandler[handlers.ResumableHandler[P, R]](ctx, enum)
	return handler.PerformEffect(ctx, payload)
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging or spawning background work.
// The handler keeps serving after ctx is cancelled; it stops when the returned
// function is called, after handling every payload already queued.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	td := normalizeTeardown(teardown)
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)

	return ctxWith, func() context.Context {
		handler.Close()
		return ctx
	}
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
//
// The handler will process the payload asynchronously.
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum EffectEnum,
	payload P,
) {
	handler := mustGetHandler[handlers.FireAndForgetHandler[P]](ctx, enum)
	handler.FireAndForgetEffect(ctx, payload)
}

// HasEffectHandler reports whether a handler is registered for enum.
func HasEffectHandler(ctx context.Context, enum EffectEnum) bool {
	_, err := helper.GetHandler(ctx, enum)
	return err == nil
}

func mustGetHandler[H any](ctx context.Context, enum EffectEnum) H {
	h, err := helper.GetTypedHandler[H](ctx, enum)
	if err != nil {
		panic(err)
	}
	return h
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
