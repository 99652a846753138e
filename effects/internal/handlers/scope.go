package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// effectScope owns the workers behind one registered handler.
//
// Close cancels the scope context, waits until the workers have handled what
// was already queued, then runs the teardown. Sending to a closed scope is a
// bug in the caller: the message is never handled.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	closeFn    func()
	closeOnce  sync.Once
}

func (es *effectScope[T]) Close() {
	es.closeOnce.Do(es.closeFn)
}

func newEffectScope[T any](
	ctx context.Context,
	newDispatcher func(context.Context) WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	ctx, cancelFn := context.WithCancel(ctx)
	dispatcher := newDispatcher(ctx)
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		closeFn: func() {
			cancelFn()
			<-dispatcher.Done()
			teardown()
		},
	}
}
