package xmemo

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Cache 是按 key 惰性初始化的并发安全 memoizing 缓存。
// T 为缓存值类型，A 为构建参数类型（无参数时使用 [NoArg]）。
// 必须通过 [New] 创建，零值不可用（方法调用会 panic）。
// 所有方法都是并发安全的。
//
// 同一 key 的工厂在缓存生命周期内至多调用一次（Remove 后重新 Get 会重建）。
// 条目没有淘汰策略：只有显式 Remove/Clear 或关闭缓存才会移除条目。
type Cache[T, A any] struct {
	// entries 持有 key→value 映射。
	// sync.Map 的无锁读取构成快速路径；关闭时指针置 nil（map 脱离），
	// 使在途和后续查找快速失败。
	entries atomic.Pointer[sync.Map]

	// strategy 是一次性写入的策略槽，通过 CAS 绑定。
	strategy atomic.Pointer[Strategy[T, A]]

	// lock 是容量为 1 的 channel，充当唯一的互斥原语。
	// 发送成功 = 获取锁，接收 = 释放锁。
	// select 发送支持 ctx 取消（协作式等待），裸发送为阻塞式获取，
	// 两种等待方式竞争同一把锁。
	lock chan struct{}

	// closed 在锁外通过 CAS 置位，使关闭不必等待慢速的在途构建。
	closed atomic.Bool

	logger *slog.Logger
	hook   Hook
}

// New 创建新的缓存实例。
// 通过 [WithStrategy] 可在构造时绑定构建策略，否则须在首次 Get 前
// 调用 SetStrategy 绑定。
func New[T, A any](opts ...Option[T, A]) *Cache[T, A] {
	o := defaultOptions[T, A]()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	c := &Cache[T, A]{
		lock:   make(chan struct{}, 1),
		logger: o.logger,
		hook:   o.hook,
	}
	c.entries.Store(&sync.Map{})
	if o.strategy != nil {
		s := o.strategy
		c.strategy.Store(&s)
	}
	return c
}

// SetStrategy 绑定构建策略，整个生命周期内只允许绑定一次。
// 已绑定（构造时或先前调用）时返回 [ErrAlreadyBound]，原有绑定保持不变。
// s 为 nil 时返回 [ErrNilStrategy]。缓存已关闭时返回 [ErrClosed]。
//
// 设计决策: 一次性绑定是"同一 key 至多构建一次"保证的前提——
// 中途换厂会使已建 key 与未建 key 对应的"工厂"产生歧义。
func (c *Cache[T, A]) SetStrategy(s Strategy[T, A]) error {
	if s == nil {
		return ErrNilStrategy
	}
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.strategy.CompareAndSwap(nil, &s) {
		return ErrAlreadyBound
	}
	return nil
}

// Get 获取 key 对应的值，未构建时调用绑定的策略构建并缓存。
// arg 为构建参数，仅在本次调用触发构建时传入工厂；命中时忽略。
//
// 快速路径无锁：已构建 key 的重复查找不产生任何锁竞争。
// 未命中时获取锁（等待可被 ctx 取消），锁内二次检查后调用工厂。
// 不同 key 的冷构建在锁内相互串行，这是单锁设计的有意取舍。
//
// 工厂返回错误或 ctx 取消时，key 保持未构建状态，后续调用可重试。
// 缓存已关闭时返回 [ErrClosed]；未绑定策略时返回 [ErrNoStrategy]。
// ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Get(ctx context.Context, key string, arg A) (T, error) {
	if ctx == nil {
		panic("xmemo: nil Context")
	}
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if v, ok, err := c.fastGet(key); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-c.lock }()

	return c.buildLocked(ctx, key, arg)
}

// GetSync 是 Get 的阻塞形式：锁等待与工厂调用均不可取消。
// 策略需要 ctx 时使用 context.Background()。
func (c *Cache[T, A]) GetSync(key string, arg A) (T, error) {
	var zero T
	if v, ok, err := c.fastGet(key); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	c.lock <- struct{}{}
	defer func() { <-c.lock }()

	return c.buildLocked(context.Background(), key, arg)
}

// TryGet 查询 key 是否已构建，从不触发构建、从不等待锁。
// key 未构建时返回 (零值, false, nil)。缓存已关闭时返回 [ErrClosed]。
//
// 与关闭竞争时的语义：先于 closed 置位观察到的调用若随后发现 map 已脱离，
// 视为"未构建"而非错误；只有观察到 closed 已置位的调用才返回 ErrClosed。
func (c *Cache[T, A]) TryGet(key string) (T, bool, error) {
	var zero T
	if c.closed.Load() {
		return zero, false, ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		return zero, false, nil
	}
	v, ok := m.Load(key)
	if !ok {
		return zero, false, nil
	}
	return v.(T), true, nil
}

// Len 返回当前条目数的瞬时快照，无锁读取。
// 缓存已关闭时返回 0。
func (c *Cache[T, A]) Len() int {
	m := c.entries.Load()
	if m == nil {
		return 0
	}
	n := 0
	m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// fastGet 是无锁快速路径。返回 (值, 是否命中, 错误)。
func (c *Cache[T, A]) fastGet(key string) (T, bool, error) {
	var zero T
	if c.closed.Load() {
		return zero, false, ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		// 关闭在 closed 检查之后抢先完成，map 已脱离。
		return zero, false, ErrClosed
	}
	if v, ok := m.Load(key); ok {
		c.onHit(key)
		return v.(T), true, nil
	}
	return zero, false, nil
}

// buildLocked 在锁内执行二次检查与构建。调用方必须持有 c.lock。
func (c *Cache[T, A]) buildLocked(ctx context.Context, key string, arg A) (T, error) {
	var zero T
	if c.closed.Load() {
		return zero, ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		return zero, ErrClosed
	}
	// 二次检查：等锁期间其他调用方可能已完成构建。
	if v, ok := m.Load(key); ok {
		c.onHit(key)
		return v.(T), nil
	}

	sp := c.strategy.Load()
	if sp == nil {
		return zero, ErrNoStrategy
	}

	c.onMiss(key)
	start := time.Now()
	v, err := (*sp).invoke(ctx, key, arg)
	c.onBuild(key, time.Since(start), err)
	if err != nil {
		return zero, err
	}

	// 工厂执行期间关闭可能已抢先完成（closed 在锁外置位）。
	// 此时 map 已脱离，不再写入，就地释放刚构建的值。
	if c.closed.Load() {
		if rerr := releaseValue(ctx, v); rerr != nil {
			c.logWarn("release value built during close", key, rerr)
		}
		return zero, ErrClosed
	}

	m.Store(key, v)
	return v, nil
}

func (c *Cache[T, A]) onHit(key string) {
	if c.hook != nil {
		c.hook.OnHit(key)
	}
}

func (c *Cache[T, A]) onMiss(key string) {
	if c.hook != nil {
		c.hook.OnMiss(key)
	}
}

func (c *Cache[T, A]) onBuild(key string, elapsed time.Duration, err error) {
	if c.hook != nil {
		c.hook.OnBuild(key, elapsed, err)
	}
}

func (c *Cache[T, A]) logWarn(msg, key string, err error) {
	if c.logger != nil {
		c.logger.Warn("xmemo: "+msg, "key", key, "error", err)
	}
}

// 编译期接口检查：Cache 自身具备两种释放能力，可作为值嵌套缓存。
var (
	_ io.Closer  = (*Cache[int, NoArg])(nil)
	_ Shutdowner = (*Cache[int, NoArg])(nil)
)
