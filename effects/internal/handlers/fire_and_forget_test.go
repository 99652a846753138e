package handlers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/collatz_ive_go/effects/internal/handlers"
	"github.com/stretchr/testify/assert"
)

func TestFireAndForgetHandler_BasicExecution(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var receivedPayload string
	done := make(chan bool)

	handler := handlers.NewFireAndForgetHandler(
		ctx,
		10,
		func(ctx context.Context, msg string) {
			receivedPayload = msg
			done <- true
		},
		func() {}, // no-op teardown
	)
	defer handler.Close()

	handler.FireAndForgetEffect(ctx, "hello")

	select {
	case <-done:
		assert.Equal(t, "hello", receivedPayload)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for handler")
	}
	assert.NotEmpty(t, handler.EffectId)
}

func TestFireAndForgetHandler_CloseHandlesQueuedMessages(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var received []int
	tornDown := false

	handler := handlers.NewFireAndForgetHandler(
		ctx,
		100,
		func(ctx context.Context, msg int) {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, msg)
		},
		func() {
			mu.Lock()
			defer mu.Unlock()
			tornDown = true
		},
	)

	for i := 0; i < 50; i++ {
		handler.FireAndForgetEffect(ctx, i)
	}
	handler.Close()
	handler.Close() // second close is a no-op

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 50)
	assert.Equal(t, 0, received[0])
	assert.Equal(t, 49, received[49], "a single worker keeps arrival order")
	assert.True(t, tornDown)
}

func TestFireAndForgetHandler_SurvivesParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan string, 1)
	handler := handlers.NewFireAndForgetHandler(
		ctx,
		1,
		func(ctx context.Context, msg string) {
			done <- msg
		},
		func() {},
	)
	defer handler.Close()

	cancel()
	handler.FireAndForgetEffect(context.Background(), "late")

	select {
	case msg := <-done:
		assert.Equal(t, "late", msg)
	case <-time.After(1 * time.Second):
		t.Fatal("handler stopped with its parent context")
	}
}

func TestFireAndForgetHandler_CancelledCallerDoesNotSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called bool
	handler := handlers.NewFireAndForgetHandler(
		context.Background(),
		10,
		func(ctx context.Context, msg string) {
			called = true
		},
		func() {},
	)

	handler.FireAndForgetEffect(ctx, "should-not-send")
	handler.Close()

	assert.False(t, called, "handler should not have been called")
}
