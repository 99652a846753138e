package effects_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/collatz_ive_go/effects"
	"github.com/rickb777/date/v2/timespan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	effectEcho  effects.EffectEnum = "effects_test_echo"
	effectCount effects.EffectEnum = "effects_test_count"
)

type word string

func (w word) PartitionKey() string { return string(w) }

func TestResumableEffect_RoundTrip(t *testing.T) {
	ctx, end := effects.WithResumablePartitionableEffectHandler(
		context.Background(),
		effects.NewEffectScopeConfig(2, 4),
		effectEcho,
		func(_ context.Context, w word) (int, error) {
			if w == "" {
				return 0, errors.New("empty word")
			}
			return len(w), nil
		},
	)
	defer end()

	res, ok := <-effects.PerformResumableEffect[word, int](ctx, effectEcho, "collatz")
	require.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, 7, res.Value)

	res, ok = <-effects.PerformResumableEffect[word, int](ctx, effectEcho, "")
	require.True(t, ok)
	assert.EqualError(t, res.Err, "empty word")
}

func TestResumableEffect_TeardownRunsOnEnd(t *testing.T) {
	tornDown := false
	ctx := context.Background()
	ctxWith, end := effects.WithResumablePartitionableEffectHandler(
		ctx,
		effects.NewEffectScopeConfig(1, 1),
		effectEcho,
		func(_ context.Context, w word) (int, error) { return len(w), nil },
		func() { tornDown = true },
	)
	assert.True(t, effects.HasEffectHandler(ctxWith, effectEcho))

	back := end()
	assert.True(t, tornDown)
	assert.Equal(t, ctx, back)
	assert.False(t, effects.HasEffectHandler(back, effectEcho))
}

func TestFireAndForgetEffect_HandlesEveryPayloadBeforeEnd(t *testing.T) {
	var mu sync.Mutex
	var got []int
	ctx, end := effects.WithFireAndForgetEffectHandler(
		context.Background(),
		0,
		effectCount,
		func(_ context.Context, n int) {
			time.Sleep(time.Millisecond)
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		},
	)
	for i := 0; i < 5; i++ {
		effects.FireAndForgetEffect(ctx, effectCount, i)
	}
	end()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestEffect_PanicsWithoutHandler(t *testing.T) {
	ctx := context.Background()
	assert.Panics(t, func() {
		effects.FireAndForgetEffect(ctx, effectCount, 1)
	})
	assert.Panics(t, func() {
		effects.PerformResumableEffect[word, int](ctx, effectEcho, "x")
	})
}

func TestEffect_PanicsOnHandlerTypeMismatch(t *testing.T) {
	ctx, end := effects.WithFireAndForgetEffectHandler(
		context.Background(), 1, effectCount, func(context.Context, int) {},
	)
	defer end()
	assert.Panics(t, func() {
		effects.FireAndForgetEffect(ctx, effectCount, "not an int")
	})
}

func TestNormalizeTeardown_RejectsSeveral(t *testing.T) {
	assert.Panics(t, func() {
		effects.WithFireAndForgetEffectHandler(
			context.Background(), 1, effectCount, func(context.Context, int) {},
			func() {}, func() {},
		)
	})
}

func TestNewEffectScopeConfig_Floors(t *testing.T) {
	assert.Equal(t, effects.EffectScopeConfig{BufferSize: 1, NumWorkers: 1}, effects.NewEffectScopeConfig(0, -3))
}

func TestSpanSince(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	span := effects.SpanSince(start)
	assert.True(t, span.Start().Equal(start))
	assert.GreaterOrEqual(t, span.Duration(), 2*time.Second)
}

func TestSpanFields(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 500, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	fields := effects.SpanFields(timespan.BetweenTimes(start, end))
	assert.Equal(t, "2024-01-01T12:00:00.0000005Z", fields["started"])
	assert.Equal(t, "1.5s", fields["elapsed"])
}

func TestEffect_MissingHandlerErrorWrapsSentinel(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %v", r)
		assert.ErrorIs(t, err, effects.ErrNoEffectHandler)
	}()
	effects.FireAndForgetEffect(context.Background(), effectCount, 1)
}
