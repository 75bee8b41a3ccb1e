// Package xmemo 提供按 key 惰性初始化的并发安全 memoizing 缓存。
//
// 给定一个 key，缓存返回先前构建的值，或恰好构建一次（即使并发调用）
// 并缓存供后续查找。用于在应用内共享构建代价高的资源
// （连接池客户端、句柄、编译后的配置等），调用方无须各自实现加锁与释放。
//
// # 核心特性
//
//   - 泛型支持：值类型 T 与强类型构建参数 A
//   - 至多一次构建：双重检查锁保证同一 key 的工厂在生命周期内至多调用一次
//   - 无锁快速路径：已构建 key 的重复查找不产生任何锁竞争
//   - 六种策略形态：按 key / 带 ctx / 带参数及其组合，封闭变体集合
//   - 释放协议：值离开缓存（Remove/Clear/Close）时探测
//     io.Closer（同步优先）或 Shutdowner（异步）能力并调用
//   - 幂等关闭：Close/Shutdown 首个调用者完成清理，其余调用立即返回
//
// # 并发模型
//
// 每个缓存实例恰有一把锁（容量 1 的 channel），不做按 key 分片。
// 这是简单性优先于并行度的有意取舍：不同 key 的冷构建在锁内相互串行，
// 但占绝对多数的稳态场景——重复查找已构建的 key——走无锁快速路径，
// 完全没有竞争；只有较少出现的冷构建路径承担串行化代价。
//
// 异步形式（带 ctx 的方法）仅在两处挂起：等待锁、等待工厂结果。
// ctx 取消会中止本调用方的等待，但不会中止已委托给工厂的工作
// （除非工厂自身响应 ctx），也不会污染缓存——被取消的 Get 使 key
// 保持未构建，后续调用正常重试。
//
// # 使用场景
//
//   - 按地址/租户共享的池化客户端（Redis、MongoDB 等，见 xshare 包）
//   - 按路径缓存的编译后配置（见 xconfcache 包）
//   - 任何"首次构建昂贵、此后只读共享"的资源
//
// # 设计决策
//
//   - closed 标记在锁外通过 CAS 置位，使关闭不必排队等待慢速的在途构建；
//     关闭同时将内部 map 指针置 nil（脱离），在途和后续查找快速失败
//   - 策略槽一次性写入（CAS），重复绑定返回 ErrAlreadyBound：
//     可换厂会破坏"同一 key 至多构建一次"的语义
//   - 不提供淘汰策略：这是 memoizer 而非 LRU 缓存，条目存活到显式
//     Remove/Clear 或缓存关闭；需要淘汰语义时使用带过期的缓存库
//
// # 已知限制
//
//   - RemoveSync/ClearSync/Close 路径上，值的异步释放能力以
//     context.Background() 阻塞调用，这是文档化的尖锐边缘
//   - 工厂完成与关闭置位之间存在微小竞争窗口：此窗口内构建出的值
//     由收尾检查就地释放，不会泄漏，但对应的 Get 返回 ErrClosed
//   - Len 是无锁瞬时快照，并发场景下与 Keys 的长度可能不一致
//
// # 注意事项
//
//   - 释放失败不会被静默吞掉：错误从 Remove/Clear/Close 返回
//     （多条目时 errors.Join 合并），并经配置的 slog Logger 记录
//   - 缓存自身实现 io.Closer 与 Shutdowner，可作为值嵌套进另一个缓存
//   - Hook 回调在请求路径上同步执行，严禁在回调中调用缓存自身方法
package xmemo
