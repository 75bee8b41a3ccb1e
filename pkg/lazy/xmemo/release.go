package xmemo

import (
	"context"
	"io"
)

// Shutdowner 表示值的异步释放能力。
// 与 [net/http.Server] 的 Shutdown 约定一致：释放过程可被 ctx 取消。
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// releaseValue 对离开缓存的值执行释放协议。
// 能力探测顺序：[io.Closer]（同步，优先）→ [Shutdowner]（异步）。
// 两者都不具备时不做任何处理，释放是可选能力而非错误。
//
// 设计决策: 值同时实现两种能力时取同步路径。Close() error 与
// Shutdown(ctx) error 方法名不同，一个类型可以同时提供两者，
// 由调用路径（阻塞/异步）之外的固定偏好决定取哪个，保证行为可预测。
func releaseValue(ctx context.Context, v any) error {
	switch r := v.(type) {
	case io.Closer:
		return r.Close()
	case Shutdowner:
		return r.Shutdown(ctx)
	}
	return nil
}
