package xmemo

import "log/slog"

// Option 定义 Cache 可选配置函数类型。
type Option[T, A any] func(*options[T, A])

type options[T, A any] struct {
	strategy Strategy[T, A]
	logger   *slog.Logger
	hook     Hook
}

func defaultOptions[T, A any]() options[T, A] {
	return options[T, A]{
		logger: slog.Default(),
	}
}

// WithStrategy 在构造时绑定构建策略。
// 与 SetStrategy 互斥：构造时已绑定后再调用 SetStrategy 返回 [ErrAlreadyBound]。
// s 为 nil 时等同于未绑定。
func WithStrategy[T, A any](s Strategy[T, A]) Option[T, A] {
	return func(o *options[T, A]) {
		o.strategy = s
	}
}

// WithLogger 设置自定义 Logger，用于记录释放失败等警告日志。
// 默认使用 slog.Default()，传入 nil 将禁用日志输出。
func WithLogger[T, A any](logger *slog.Logger) Option[T, A] {
	return func(o *options[T, A]) {
		o.logger = logger
	}
}

// WithHook 设置缓存事件回调，用于指标采集。
// 默认无回调。传入 nil 等同于不设置。
func WithHook[T, A any](h Hook) Option[T, A] {
	return func(o *options[T, A]) {
		o.hook = h
	}
}
