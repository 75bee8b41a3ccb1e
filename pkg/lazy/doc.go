// Package lazy 提供键控惰性初始化相关的子包。
//
// 子包列表：
//   - xmemo: 核心的键控记忆化缓存，按键惰性构建并缓存值
//   - xmemootel: 基于 OpenTelemetry 的缓存指标 Hook
//   - xshare: 基于 xmemo 的共享客户端注册表（Redis、MongoDB）
//   - xconfcache: 基于 xmemo 的配置解析缓存（koanf）
//
// 设计原则：
//   - 同一个键的值最多构建一次，构建期间的并发调用共享结果
//   - 值的生命周期由缓存统一管理，移除和关闭时按释放协议清理
//   - 泛型接口，调用方无需类型断言
package lazy
