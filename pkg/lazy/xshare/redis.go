package xshare

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

// RedisClients 是按地址共享的 Redis 客户端注册表。
// 同一地址的客户端恰好构建一次，所有调用方复用同一实例及其连接池。
// Remove/Close 时通过 io.Closer 释放客户端。
// 所有方法都是并发安全的。
type RedisClients struct {
	cache *xmemo.Cache[*redis.Client, *redis.Options]
}

// NewRedisClients 创建 Redis 客户端注册表。
// base 为所有客户端的公共配置模板（连接池大小、超时等），可以为 nil。
// 构建时复制 base 并以注册表 key 覆盖 Addr 字段。
func NewRedisClients(base *redis.Options, opts ...Option) *RedisClients {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	strategy := xmemo.ByKeyContextArg[*redis.Client, *redis.Options](
		func(ctx context.Context, addr string, override *redis.Options) (*redis.Client, error) {
			tmpl := base
			if override != nil {
				tmpl = override
			}
			var cfg redis.Options
			if tmpl != nil {
				cfg = *tmpl
			}
			cfg.Addr = addr

			client := redis.NewClient(&cfg)
			if o.ping {
				if err := client.Ping(ctx).Err(); err != nil {
					_ = client.Close()
					return nil, fmt.Errorf("xshare: ping %s: %w", addr, err)
				}
			}
			return client, nil
		})

	return &RedisClients{
		cache: xmemo.New(
			xmemo.WithStrategy[*redis.Client, *redis.Options](strategy),
			xmemo.WithLogger[*redis.Client, *redis.Options](o.logger),
			xmemo.WithHook[*redis.Client, *redis.Options](o.hook),
		),
	}
}

// Get 获取 addr 对应的共享客户端，未构建时按公共模板构建。
// 注册表已关闭时返回 [xmemo.ErrClosed]。
func (r *RedisClients) Get(ctx context.Context, addr string) (*redis.Client, error) {
	return r.cache.Get(ctx, addr, nil)
}

// GetWithOptions 与 Get 相同，但本次构建使用 override 替代公共模板。
// 仅在触发构建时生效：addr 已构建时 override 被忽略。
// override 的 Addr 字段同样会被 addr 覆盖。
func (r *RedisClients) GetWithOptions(ctx context.Context, addr string, override *redis.Options) (*redis.Client, error) {
	return r.cache.Get(ctx, addr, override)
}

// Remove 关闭并移除 addr 对应的客户端。addr 未构建时为无操作。
func (r *RedisClients) Remove(ctx context.Context, addr string) error {
	return r.cache.Remove(ctx, addr)
}

// Addrs 返回当前已构建客户端的地址快照。
func (r *RedisClients) Addrs(ctx context.Context) ([]string, error) {
	return r.cache.Keys(ctx)
}

// Len 返回当前已构建客户端数量。
func (r *RedisClients) Len() int {
	return r.cache.Len()
}

// Close 关闭注册表并释放所有客户端。幂等。
func (r *RedisClients) Close() error {
	return r.cache.Close()
}

// Shutdown 是 Close 的异步形式。幂等。
func (r *RedisClients) Shutdown(ctx context.Context) error {
	return r.cache.Shutdown(ctx)
}
