package xmemo

import "context"

// NoArg 是无构建参数场景下的 A 类型占位符。
type NoArg struct{}

// Strategy 表示缓存值的构建策略。
// 六种形态由本包的构造函数给出（[ByKey]、[ByKeyContext]、[ByKeyArg]、
// [ByKeyContextArg]、[ByArg]、[ByContextArg]），通过未导出方法封闭变体集合，
// 外部无法引入未知形态。
//
// 设计决策: 同步与异步工厂在 Go 中合并为一种——函数返回值天然是"同步"的，
// 取消能力由 ctx 参数承载。带 ctx 的形态对应可取消的异步构建，
// 不带 ctx 的形态对应纯同步构建。
type Strategy[T, A any] interface {
	invoke(ctx context.Context, key string, arg A) (T, error)
}

// ByKey 创建按 key 构建、无额外参数的策略。
// fn 为 nil 时 panic。
func ByKey[T, A any](fn func(key string) (T, error)) Strategy[T, A] {
	if fn == nil {
		panic("xmemo: nil factory")
	}
	return byKey[T, A]{fn: fn}
}

// ByKeyContext 创建按 key 构建、支持取消的策略。
// fn 为 nil 时 panic。
func ByKeyContext[T, A any](fn func(ctx context.Context, key string) (T, error)) Strategy[T, A] {
	if fn == nil {
		panic("xmemo: nil factory")
	}
	return byKeyContext[T, A]{fn: fn}
}

// ByKeyArg 创建按 key 构建、携带强类型参数的策略。
// 参数 arg 由每次 Get 调用传入，仅首次构建时生效（后续命中不再调用工厂）。
// fn 为 nil 时 panic。
func ByKeyArg[T, A any](fn func(key string, arg A) (T, error)) Strategy[T, A] {
	if fn == nil {
		panic("xmemo: nil factory")
	}
	return byKeyArg[T, A]{fn: fn}
}

// ByKeyContextArg 创建按 key 构建、支持取消且携带强类型参数的策略。
// fn 为 nil 时 panic。
func ByKeyContextArg[T, A any](fn func(ctx context.Context, key string, arg A) (T, error)) Strategy[T, A] {
	if fn == nil {
		panic("xmemo: nil factory")
	}
	return byKeyContextArg[T, A]{fn: fn}
}

// ByArg 创建与 key 无关、仅依赖参数的策略。
// key 仍用于缓存寻址，但不传入工厂。
// fn 为 nil 时 panic。
func ByArg[T, A any](fn func(arg A) (T, error)) Strategy[T, A] {
	if fn == nil {
		panic("xmemo: nil factory")
	}
	return byArg[T, A]{fn: fn}
}

// ByContextArg 创建与 key 无关、支持取消且依赖参数的策略。
// fn 为 nil 时 panic。
func ByContextArg[T, A any](fn func(ctx context.Context, arg A) (T, error)) Strategy[T, A] {
	if fn == nil {
		panic("xmemo: nil factory")
	}
	return byContextArg[T, A]{fn: fn}
}

type byKey[T, A any] struct {
	fn func(key string) (T, error)
}

func (s byKey[T, A]) invoke(_ context.Context, key string, _ A) (T, error) {
	return s.fn(key)
}

type byKeyContext[T, A any] struct {
	fn func(ctx context.Context, key string) (T, error)
}

func (s byKeyContext[T, A]) invoke(ctx context.Context, key string, _ A) (T, error) {
	return s.fn(ctx, key)
}

type byKeyArg[T, A any] struct {
	fn func(key string, arg A) (T, error)
}

func (s byKeyArg[T, A]) invoke(_ context.Context, key string, arg A) (T, error) {
	return s.fn(key, arg)
}

type byKeyContextArg[T, A any] struct {
	fn func(ctx context.Context, key string, arg A) (T, error)
}

func (s byKeyContextArg[T, A]) invoke(ctx context.Context, key string, arg A) (T, error) {
	return s.fn(ctx, key, arg)
}

type byArg[T, A any] struct {
	fn func(arg A) (T, error)
}

func (s byArg[T, A]) invoke(_ context.Context, _ string, arg A) (T, error) {
	return s.fn(arg)
}

type byContextArg[T, A any] struct {
	fn func(ctx context.Context, arg A) (T, error)
}

func (s byContextArg[T, A]) invoke(ctx context.Context, _ string, arg A) (T, error) {
	return s.fn(ctx, arg)
}

// 编译期接口检查。
var (
	_ Strategy[int, NoArg] = byKey[int, NoArg]{}
	_ Strategy[int, NoArg] = byKeyContext[int, NoArg]{}
	_ Strategy[int, int]   = byKeyArg[int, int]{}
	_ Strategy[int, int]   = byKeyContextArg[int, int]{}
	_ Strategy[int, int]   = byArg[int, int]{}
	_ Strategy[int, int]   = byContextArg[int, int]{}
)
