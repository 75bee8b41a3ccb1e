package xconfcache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

// Format 定义配置数据格式。
type Format string

const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

const defaultDelim = "."

// Option 定义配置缓存的可选配置函数类型。
type Option func(*options)

type options struct {
	delim  string
	logger *slog.Logger
	hook   xmemo.Hook
}

func defaultOptions() options {
	return options{
		delim:  defaultDelim,
		logger: slog.Default(),
	}
}

// WithDelim 设置 koanf 的 key 路径分隔符，默认为 "."。
// 空字符串等同于默认值。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithLogger 设置底层缓存使用的 Logger。
// 默认使用 slog.Default()，传入 nil 将禁用日志输出。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHook 设置底层缓存的事件回调，用于指标采集（见 xmemootel 包）。
func WithHook(h xmemo.Hook) Option {
	return func(o *options) {
		o.hook = h
	}
}

// FileCache 按文件路径缓存编译后的配置。
// 每个路径的文件只读取并解析一次，此后的 Get 返回同一 *koanf.Koanf 实例。
// 文件变更不会被自动感知：需要重新编译时显式 Remove 后再 Get。
// 所有方法都是并发安全的。
type FileCache = xmemo.Cache[*koanf.Koanf, xmemo.NoArg]

// BytesCache 按调用方命名的 key 缓存从原始字节编译的配置。
// 字节数据作为构建参数传入，仅首次构建时解析（命中时忽略）。
// 适用于 K8s ConfigMap 等非文件来源。
type BytesCache = xmemo.Cache[*koanf.Koanf, []byte]

// New 创建按文件路径缓存的配置缓存。
// 格式根据扩展名自动检测（.yaml/.yml 或 .json）。
func New(opts ...Option) *FileCache {
	o := applyOptions(opts)

	strategy := xmemo.ByKey[*koanf.Koanf, xmemo.NoArg](
		func(path string) (*koanf.Koanf, error) {
			format, err := detectFormat(path)
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
			}
			return compile(data, format, o.delim)
		})

	return xmemo.New(
		xmemo.WithStrategy[*koanf.Koanf, xmemo.NoArg](strategy),
		xmemo.WithLogger[*koanf.Koanf, xmemo.NoArg](o.logger),
		xmemo.WithHook[*koanf.Koanf, xmemo.NoArg](o.hook),
	)
}

// NewFromBytes 创建按原始字节编译的配置缓存，格式须显式指定。
// key 由调用方命名（如 ConfigMap 名称），字节数据经 Get 的参数传入。
// 格式无效时返回 [ErrUnsupportedFormat]。
func NewFromBytes(format Format, opts ...Option) (*BytesCache, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}
	o := applyOptions(opts)

	strategy := xmemo.ByKeyArg[*koanf.Koanf, []byte](
		func(_ string, data []byte) (*koanf.Koanf, error) {
			return compile(data, format, o.delim)
		})

	return xmemo.New(
		xmemo.WithStrategy[*koanf.Koanf, []byte](strategy),
		xmemo.WithLogger[*koanf.Koanf, []byte](o.logger),
		xmemo.WithHook[*koanf.Koanf, []byte](o.hook),
	), nil
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func isValidFormat(format Format) bool {
	switch format {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// compile 将原始数据解析为 koanf 实例。
// 空数据编译为空配置，与读取空文件的行为一致。
func compile(data []byte, format Format, delim string) (*koanf.Koanf, error) {
	k := koanf.New(delim)
	if len(data) == 0 {
		return k, nil
	}

	var err error
	switch format {
	case FormatYAML:
		err = k.Load(rawbytes.Provider(data), yaml.Parser())
	case FormatJSON:
		err = k.Load(rawbytes.Provider(data), json.Parser())
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
