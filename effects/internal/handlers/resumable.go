package handlers

import (
	"context"

	effectmodel "github.com/on-the-ground/collatz_ive_go/effects/internal/model"
)

// NewPartitionableResumableHandler starts config.NumWorkers workers. A payload
// goes to the worker picked by hashing its PartitionKey, so payloads with the
// same key are handled in order by the same goroutine.
//
// Workers stop with ctx. Payloads still queued at that point are answered with
// a closed resume channel instead of a result.
func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			ctx,
			func(ctx context.Context) WorkerDispatcher[ResumableEffectMessage[P, R]] {
				return NewPartitionedQueue(
					ctx,
					config.NumWorkers,
					config.BufferSize,
					func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
						defer close(msg.ResumeCh)
						if ctx.Err() != nil {
							return
						}
						msg.ResumeCh <- effectmodel.ResumableResultFrom(handleFn(ctx, msg.Payload))
					},
				)
			},
			teardown,
		),
	}
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect queues payload and returns the channel its result will arrive on.
// The channel is closed without a value if the scope or ctx ends first.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan effectmodel.ResumableResult[R] {
	// buffered so the worker never waits for the caller
	resumeCh := make(chan effectmodel.ResumableResult[R], 1)
	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}
	if ctx.Err() != nil {
		close(resumeCh)
		return resumeCh
	}
	select {
	case <-ctx.Done():
		close(resumeCh)
	case rh.dispatcher.GetChannelOf(msg) <- msg:
	}
	return resumeCh
}

var _ effectmodel.Partitionable = ResumableEffectMessage[effectmodel.Partitionable, any]{}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan effectmodel.ResumableResult[R]
}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	if p, ok := any(rem.Payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}
