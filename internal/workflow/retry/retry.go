// Package retry 提供针对生成调用的有界指数退避重试
package retry

import (
	"context"
	"time"

	wfmodel "qanoni-ai-api/internal/workflow/model"
	"qanoni-ai-api/internal/workflow/node"
)

// 重试上限与初始延迟是固定默认值，不走配置文件。
// 构造函数参数仅为可测试性保留。
const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = time.Second
)

// OnRetry 在每次重试前被调用（首次尝试前不会调用），
// attempt 为刚刚失败的尝试序号（1 基），供调用方展示进度。
type OnRetry func(attempt, maxAttempts int)

// Operation 单次生成尝试
type Operation func(ctx context.Context) (*wfmodel.GenerationResult, error)

// Driver 重试驱动器
type Driver struct {
	maxAttempts  int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// Option 驱动器选项
type Option func(*Driver)

// WithMaxAttempts 覆盖重试上限（测试用）
func WithMaxAttempts(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// WithInitialDelay 覆盖初始延迟（测试用）
func WithInitialDelay(delay time.Duration) Option {
	return func(d *Driver) {
		if delay > 0 {
			d.initialDelay = delay
		}
	}
}

// WithSleep 覆盖退避等待实现（测试用）
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Driver) {
		if sleep != nil {
			d.sleep = sleep
		}
	}
}

// NewDriver 创建重试驱动器
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		maxAttempts:  DefaultMaxAttempts,
		initialDelay: DefaultInitialDelay,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Do 执行 op，瞬时失败时按 1,2,4,8 倍初始延迟退避后重试。
// 终止错误与重试耗尽都原样返回最后一次观察到的错误，
// 绝不吞错，也绝不在成功后继续尝试。
func (d *Driver) Do(ctx context.Context, op Operation, onRetry OnRetry) (*wfmodel.GenerationResult, error) {
	var lastErr error

	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !node.IsTransientError(err) {
			// 终止错误：立即上抛，不消耗剩余尝试
			return nil, err
		}
		if attempt == d.maxAttempts-1 {
			break
		}

		if onRetry != nil {
			onRetry(attempt+1, d.maxAttempts)
		}
		delay := d.initialDelay << uint(attempt)
		if err := d.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// sleepContext 可被 context 取消的等待
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
