package handlers

import (
	"context"
)

// NewFireAndForgetHandler starts a single worker that runs handleFn for every
// payload in arrival order.
//
// The worker is detached from the cancellation of ctx: a fire-and-forget
// scope (logging, spawning) must keep serving until Close, so that the last
// messages of a cancelled run are still handled.
func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			context.WithoutCancel(ctx),
			func(ctx context.Context) WorkerDispatcher[P] {
				return NewSingleQueue(ctx, bufferSize, handleFn)
			},
			teardown,
		),
	}
}

type FireAndForgetHandler[P any] struct {
	*effectScope[P]
}

func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) {
	if ctx.Err() != nil {
		return
	}
	select {
	case <-ctx.Done():
	case ffh.dispatcher.GetChannelOf(payload) <- payload:
	}
}
