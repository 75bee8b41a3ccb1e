package xmemo

import "time"

// Hook 定义缓存事件回调，用于指标采集和监控。
// 回调在请求路径上同步执行，应避免耗时操作；
// 严禁在回调中调用 Cache 自身的方法，否则可能死锁。
//
// xmemootel 包提供基于 OpenTelemetry 的实现。
type Hook interface {
	// OnHit 在快速路径或锁内命中时调用。
	OnHit(key string)

	// OnMiss 在确认未命中、即将调用工厂前调用。
	OnMiss(key string)

	// OnBuild 在工厂返回后调用，err 为工厂返回的错误（成功时为 nil）。
	OnBuild(key string, elapsed time.Duration, err error)

	// OnRelease 在值的释放协议执行后调用，err 为释放错误（无释放能力或成功时为 nil）。
	OnRelease(key string, err error)
}

// NoopHook 是 Hook 的空实现。
type NoopHook struct{}

// OnHit 空实现。
func (NoopHook) OnHit(string) {}

// OnMiss 空实现。
func (NoopHook) OnMiss(string) {}

// OnBuild 空实现。
func (NoopHook) OnBuild(string, time.Duration, error) {}

// OnRelease 空实现。
func (NoopHook) OnRelease(string, error) {}

var _ Hook = NoopHook{}
