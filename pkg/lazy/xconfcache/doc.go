// Package xconfcache 提供编译后配置的 memoizing 缓存，基于 xmemo 实现。
//
// 配置解析（读文件 + 反序列化为 koanf 树）是典型的"首次构建昂贵、
// 此后只读共享"场景：多租户服务按租户加载配置时，同一配置只应编译一次。
// xconfcache 保证同一 key（文件路径或调用方命名）的配置恰好编译一次，
// 所有调用方共享同一 *koanf.Koanf 实例。
//
// *koanf.Koanf 不具备释放能力，条目移除时不做额外处理——
// 这是 xmemo 释放协议中"能力缺席即跳过"的正常路径。
//
// # 两种缓存形态
//
//   - [New]：按文件路径缓存，格式由扩展名检测（.yaml/.yml/.json）
//   - [NewFromBytes]：按调用方命名的 key 缓存，字节数据作为构建参数传入，
//     适用于 K8s ConfigMap 等非文件来源
//
// # 使用示例
//
//	cache := xconfcache.New()
//	defer cache.Close()
//
//	conf, err := cache.Get(ctx, "/etc/app/tenant-a.yaml", xmemo.NoArg{})
//	if err != nil {
//		return err
//	}
//	timeout := conf.Duration("server.timeout")
//
// # 注意事项
//
//   - 文件变更不会被自动感知：这是 memoizer 而非热加载层，
//     需要重新编译时显式 Remove 后再 Get
//   - 返回的 koanf 实例被所有调用方共享，不应在其上调用 Load 追加数据
package xconfcache
