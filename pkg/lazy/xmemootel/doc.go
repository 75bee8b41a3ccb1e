// Package xmemootel 提供 xmemo 缓存的 OpenTelemetry 指标观测。
//
// NewHook 创建的 Hook 通过 [xmemo.WithHook] 挂接到缓存实例，记录以下指标：
//
//   - lazykit.memo.hits / lazykit.memo.misses：命中与未命中计数
//   - lazykit.memo.builds：工厂调用计数（属性 status=ok/error）
//   - lazykit.memo.build.duration：工厂耗时直方图（秒）
//   - lazykit.memo.releases：释放协议执行计数（属性 status=ok/error）
//
// 所有数据点携带 cache 属性（WithCacheName 设置），用于区分多个缓存实例。
// key 不作为属性记录，避免无界基数。
//
// # 使用示例
//
//	hook, err := xmemootel.NewHook(xmemootel.WithCacheName("clients"))
//	if err != nil {
//		return err
//	}
//	cache := xmemo.New(
//		xmemo.WithStrategy[*Client, xmemo.NoArg](strategy),
//		xmemo.WithHook[*Client, xmemo.NoArg](hook),
//	)
//
// # 注意事项
//
//   - Hook 在缓存请求路径上同步执行，OTel 计数器的开销为纳秒级
//   - 默认使用全局 MeterProvider，可通过 WithMeterProvider 注入
package xmemootel
