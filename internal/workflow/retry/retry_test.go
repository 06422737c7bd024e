package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfmodel "qanoni-ai-api/internal/workflow/model"
)

// noSleep 记录退避延迟但不真正等待
func noSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	var delays []time.Duration
	d := NewDriver(WithSleep(noSleep(&delays)))

	calls := 0
	observed := 0
	result, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		return &wfmodel.GenerationResult{Text: "ok"}, nil
	}, func(int, int) { observed++ })

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 1, calls)
	// 首次成功不应触发任何重试回调与等待
	assert.Equal(t, 0, observed)
	assert.Empty(t, delays)
}

func TestDo_TransientThenSuccess(t *testing.T) {
	var delays []time.Duration
	d := NewDriver(WithSleep(noSleep(&delays)))

	calls := 0
	var attempts []int
	result, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		if calls <= 2 {
			return nil, errors.New("503 service unavailable")
		}
		return &wfmodel.GenerationResult{Text: "done"}, nil
	}, func(attempt, max int) {
		attempts = append(attempts, attempt)
		assert.Equal(t, DefaultMaxAttempts, max)
	})

	require.NoError(t, err)
	assert.Equal(t, "done", result.Text)
	assert.Equal(t, 3, calls)
	// 两次失败各触发一次回调，序号从 1 开始
	assert.Equal(t, []int{1, 2}, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestDo_BackoffSchedule(t *testing.T) {
	var delays []time.Duration
	d := NewDriver(WithSleep(noSleep(&delays)))

	calls := 0
	_, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		return nil, errors.New("model overloaded")
	}, nil)

	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, calls)
	// 固定指数退避：1s, 2s, 4s, 8s；最后一次失败后不再等待
	assert.Equal(t, []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}, delays)
}

func TestDo_TerminalErrorNoRetry(t *testing.T) {
	var delays []time.Duration
	d := NewDriver(WithSleep(noSleep(&delays)))

	calls := 0
	observed := 0
	terminal := errors.New("invalid argument")
	_, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		return nil, terminal
	}, func(int, int) { observed++ })

	// 终止错误原样上抛，只消耗一次尝试
	require.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, observed)
	assert.Empty(t, delays)
}

func TestDo_QuotaErrorIsTerminal(t *testing.T) {
	d := NewDriver(WithSleep(func(context.Context, time.Duration) error {
		t.Fatal("quota exhaustion must not trigger backoff")
		return nil
	}))

	calls := 0
	_, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		return nil, errors.New("429 RESOURCE_EXHAUSTED: quota exceeded")
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustionReturnsLastError(t *testing.T) {
	var delays []time.Duration
	d := NewDriver(WithMaxAttempts(3), WithSleep(noSleep(&delays)))

	calls := 0
	last := errors.New("503 unavailable (final)")
	_, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("503 unavailable")
		}
		return nil, last
	}, nil)

	require.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestDo_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDriver(WithSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	calls := 0
	_, err := d.Do(ctx, func(context.Context) (*wfmodel.GenerationResult, error) {
		calls++
		return nil, errors.New("503 unavailable")
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_CustomInitialDelay(t *testing.T) {
	var delays []time.Duration
	d := NewDriver(
		WithMaxAttempts(4),
		WithInitialDelay(10*time.Millisecond),
		WithSleep(noSleep(&delays)),
	)

	_, err := d.Do(context.Background(), func(context.Context) (*wfmodel.GenerationResult, error) {
		return nil, errors.New("unavailable")
	}, nil)

	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}, delays)
}
