package xmemo

import "errors"

var (
	// ErrClosed 表示缓存已关闭。
	// Close/Shutdown 开始后，除幂等的 Close/Shutdown 外所有操作返回此错误。
	ErrClosed = errors.New("xmemo: cache closed")

	// ErrNoStrategy 表示尚未绑定构建策略。
	// 未通过 WithStrategy 或 SetStrategy 绑定策略时调用 Get/GetSync 返回此错误。
	ErrNoStrategy = errors.New("xmemo: no strategy bound")

	// ErrAlreadyBound 表示构建策略已绑定。
	// 策略是一次性写入的：构造时绑定或首次 SetStrategy 成功后，
	// 再次 SetStrategy 返回此错误，原有绑定保持不变。
	ErrAlreadyBound = errors.New("xmemo: strategy already bound")

	// ErrNilStrategy 表示传入的策略为 nil。
	ErrNilStrategy = errors.New("xmemo: nil strategy")
)
