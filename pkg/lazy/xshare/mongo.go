package xshare

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

// disconnecter 抽象 Disconnect 操作，便于在不连接真实服务的情况下测试释放路径。
type disconnecter interface {
	Disconnect(ctx context.Context) error
}

// MongoHandle 包装共享的 *mongo.Client，提供 [xmemo.Shutdowner] 释放能力。
// mongo.Client 的断开需要 context（网络不可达时允许设置关闭截止时间），
// 因此走缓存释放协议的异步分支而非 io.Closer。
type MongoHandle struct {
	client *mongo.Client
	disc   disconnecter
}

func newMongoHandle(client *mongo.Client, disc disconnecter) *MongoHandle {
	return &MongoHandle{client: client, disc: disc}
}

// Client 返回底层的 mongo.Client，用于执行所有 MongoDB 操作。
func (h *MongoHandle) Client() *mongo.Client {
	return h.client
}

// Shutdown 断开底层客户端连接。由缓存的释放协议在 Remove/Close 时调用。
func (h *MongoHandle) Shutdown(ctx context.Context) error {
	return h.disc.Disconnect(ctx)
}

// MongoClients 是按 URI 共享的 MongoDB 客户端注册表。
// 同一 URI 的客户端恰好构建一次；driver v2 的连接是惰性的，
// 构建本身不产生网络调用。
// 所有方法都是并发安全的。
type MongoClients struct {
	cache *xmemo.Cache[*MongoHandle, xmemo.NoArg]
}

// NewMongoClients 创建 MongoDB 客户端注册表。
func NewMongoClients(opts ...Option) *MongoClients {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	strategy := xmemo.ByKey[*MongoHandle, xmemo.NoArg](
		func(uri string) (*MongoHandle, error) {
			client, err := mongo.Connect(mongooptions.Client().ApplyURI(uri))
			if err != nil {
				return nil, fmt.Errorf("xshare: connect %s: %w", uri, err)
			}
			return newMongoHandle(client, client), nil
		})

	return &MongoClients{
		cache: xmemo.New(
			xmemo.WithStrategy[*MongoHandle, xmemo.NoArg](strategy),
			xmemo.WithLogger[*MongoHandle, xmemo.NoArg](o.logger),
			xmemo.WithHook[*MongoHandle, xmemo.NoArg](o.hook),
		),
	}
}

// Get 获取 uri 对应的共享客户端句柄，未构建时惰性建立。
// 注册表已关闭时返回 [xmemo.ErrClosed]。
func (m *MongoClients) Get(ctx context.Context, uri string) (*MongoHandle, error) {
	return m.cache.Get(ctx, uri, xmemo.NoArg{})
}

// Remove 断开并移除 uri 对应的客户端。uri 未构建时为无操作。
func (m *MongoClients) Remove(ctx context.Context, uri string) error {
	return m.cache.Remove(ctx, uri)
}

// Len 返回当前已构建客户端数量。
func (m *MongoClients) Len() int {
	return m.cache.Len()
}

// Close 关闭注册表并断开所有客户端。幂等。
// 断开以 context.Background() 执行；需要关闭截止时间时使用 Shutdown。
func (m *MongoClients) Close() error {
	return m.cache.Close()
}

// Shutdown 关闭注册表，断开操作携带传入的 ctx。幂等。
func (m *MongoClients) Shutdown(ctx context.Context) error {
	return m.cache.Shutdown(ctx)
}

// 编译期接口检查。
var _ xmemo.Shutdowner = (*MongoHandle)(nil)
