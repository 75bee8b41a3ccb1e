package xmemo

import (
	"context"
	"errors"
	"fmt"
)

// Remove 移除 key 对应的条目并执行释放协议。
// key 不存在时为无操作，不是错误。缓存已关闭时返回 [ErrClosed]。
//
// 快速路径直接在 map 上原子 take-and-remove，无须等锁；
// 未取到时获取锁后重试一次，以捕获锁内正在完成的构建。
// 原子摘取保证同一 key 的并发 Remove 至多释放一次。
// ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Remove(ctx context.Context, key string) error {
	if ctx == nil {
		panic("xmemo: nil Context")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	taken, v, err := c.fastRemove(key)
	if err != nil {
		return err
	}
	if taken {
		return c.releaseEntry(ctx, key, v)
	}

	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.lock }()

	return c.removeLocked(ctx, key)
}

// RemoveSync 是 Remove 的阻塞形式。
// 值具备异步释放能力时以 context.Background() 调用其 Shutdown，
// 这是一个可接受但不推荐的阻塞点。
func (c *Cache[T, A]) RemoveSync(key string) error {
	taken, v, err := c.fastRemove(key)
	if err != nil {
		return err
	}
	if taken {
		return c.releaseEntry(context.Background(), key, v)
	}

	c.lock <- struct{}{}
	defer func() { <-c.lock }()

	return c.removeLocked(context.Background(), key)
}

// Clear 移除所有条目并逐一执行释放协议，缓存保持可用。
// 与 Close 不同，Clear 不置位关闭标记，之后的 Get 可重新构建条目。
// 释放错误通过 [errors.Join] 合并返回。ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Clear(ctx context.Context) error {
	if ctx == nil {
		panic("xmemo: nil Context")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed.Load() {
		return ErrClosed
	}

	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.lock }()

	return c.clearLocked(ctx)
}

// ClearSync 是 Clear 的阻塞形式。
func (c *Cache[T, A]) ClearSync() error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.lock <- struct{}{}
	defer func() { <-c.lock }()

	return c.clearLocked(context.Background())
}

// Close 关闭缓存并释放所有在存条目的值。
// 该方法是幂等的：首个调用者完成清理，其余并发或后续调用立即返回 nil。
// 关闭后除 Close/Shutdown 外的所有操作返回 [ErrClosed]。
func (c *Cache[T, A]) Close() error {
	return c.teardown(context.Background())
}

// Shutdown 是 Close 的异步形式：值的异步释放能力以传入的 ctx 调用。
// 同样幂等。ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		panic("xmemo: nil Context")
	}
	return c.teardown(ctx)
}

// fastRemove 尝试无锁原子摘取。返回 (是否取到, 取到的值, 错误)。
func (c *Cache[T, A]) fastRemove(key string) (bool, any, error) {
	if c.closed.Load() {
		return false, nil, ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		return false, nil, ErrClosed
	}
	v, loaded := m.LoadAndDelete(key)
	return loaded, v, nil
}

// removeLocked 在锁内重试摘取。调用方必须持有 c.lock。
func (c *Cache[T, A]) removeLocked(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		return ErrClosed
	}
	if v, loaded := m.LoadAndDelete(key); loaded {
		return c.releaseEntry(ctx, key, v)
	}
	return nil
}

// clearLocked 在锁内摘取并释放全部条目。调用方必须持有 c.lock。
func (c *Cache[T, A]) clearLocked(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		return ErrClosed
	}

	var errs []error
	m.Range(func(k, _ any) bool {
		// Range 回调内再次 LoadAndDelete，摘取是条目释放的唯一入口。
		if v, loaded := m.LoadAndDelete(k); loaded {
			if err := c.releaseEntry(ctx, k.(string), v); err != nil {
				errs = append(errs, err)
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// teardown 执行一次性关闭：CAS 置位 → 脱离 map → 排空释放。
//
// 设计决策: closed 在锁外置位，使关闭不必排队等待慢速的在途构建。
// 代价是一个微小窗口：工厂恰在置位瞬间完成的值由 buildLocked
// 的收尾检查就地释放，不会写入已脱离的 map（见 cache.go）。
func (c *Cache[T, A]) teardown(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	m := c.entries.Swap(nil)
	if m == nil {
		return nil
	}

	var errs []error
	m.Range(func(k, _ any) bool {
		if v, loaded := m.LoadAndDelete(k); loaded {
			if err := c.releaseEntry(ctx, k.(string), v); err != nil {
				errs = append(errs, err)
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// releaseEntry 对摘取出的值执行释放协议，记录回调与日志。
func (c *Cache[T, A]) releaseEntry(ctx context.Context, key string, v any) error {
	err := releaseValue(ctx, v)
	if c.hook != nil {
		c.hook.OnRelease(key, err)
	}
	if err != nil {
		c.logWarn("release failed", key, err)
		return fmt.Errorf("xmemo: release %q: %w", key, err)
	}
	return nil
}
