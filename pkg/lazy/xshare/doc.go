// Package xshare 提供按 key 共享的客户端注册表，基于 xmemo 实现。
//
// 池化客户端（Redis、MongoDB）设计为长期存活并复用内部连接池，
// 每次调用都新建会浪费 TCP/TLS 握手。注册表保证同一地址/URI 的客户端
// 在进程内恰好构建一次，所有调用方复用同一实例；移除或关闭注册表时
// 通过 xmemo 的释放协议妥善关闭客户端。
//
// # 与直接使用 xmemo 的区别
//
// 注册表是 xmemo 的薄封装，固化了三件事：
//   - key 的含义（Redis 地址 / MongoDB URI）
//   - 构建策略（按公共模板建连，Redis 可选 Ping 探测）
//   - 释放能力（redis.Client 走 io.Closer，MongoHandle 走 Shutdowner）
//
// # 使用示例
//
//	clients := xshare.NewRedisClients(&redis.Options{PoolSize: 10})
//	defer clients.Close()
//
//	c, err := clients.Get(ctx, "10.0.0.1:6379")
//	if err != nil {
//		return err
//	}
//	c.Set(ctx, "k", "v", 0)
//
// # 注意事项
//
//   - 返回的客户端由注册表独占所有权：调用方不应自行 Close，
//     由 Remove/Close 统一释放
//   - Redis 构建时默认 Ping 探测，失败时 key 保持未构建，可重试
//   - MongoDB 连接是惰性的（driver v2），Get 成功不代表服务可达
package xshare
