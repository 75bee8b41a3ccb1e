package xconfcache

import "errors"

var (
	// ErrUnsupportedFormat 表示配置格式不受支持或无法从扩展名识别。
	ErrUnsupportedFormat = errors.New("xconfcache: unsupported format")

	// ErrLoadFailed 表示配置文件读取失败。
	ErrLoadFailed = errors.New("xconfcache: load failed")

	// ErrParseFailed 表示配置数据解析失败。
	ErrParseFailed = errors.New("xconfcache: parse failed")
)
