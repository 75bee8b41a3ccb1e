package xshare

import (
	"log/slog"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

// Option 定义客户端注册表的可选配置函数类型。
type Option func(*options)

type options struct {
	ping   bool
	logger *slog.Logger
	hook   xmemo.Hook
}

func defaultOptions() options {
	return options{
		ping:   true,
		logger: slog.Default(),
	}
}

// WithPing 设置是否在首次构建时对客户端做连通性探测（默认开启）。
// 探测失败时客户端被就地关闭，key 保持未构建状态，后续调用可重试。
// 仅对具备探测能力的注册表生效（如 Redis）。
func WithPing(ping bool) Option {
	return func(o *options) {
		o.ping = ping
	}
}

// WithLogger 设置底层缓存使用的 Logger。
// 默认使用 slog.Default()，传入 nil 将禁用日志输出。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHook 设置底层缓存的事件回调，用于指标采集（见 xmemootel 包）。
func WithHook(h xmemo.Hook) Option {
	return func(o *options) {
		o.hook = h
	}
}
