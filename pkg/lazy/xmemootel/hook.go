package xmemootel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

const (
	defaultInstrumentationName = "github.com/omeyang/lazykit/xmemootel"

	metricHits          = "lazykit.memo.hits"
	metricMisses        = "lazykit.memo.misses"
	metricBuilds        = "lazykit.memo.builds"
	metricBuildDuration = "lazykit.memo.build.duration"
	metricReleases      = "lazykit.memo.releases"

	statusOK    = "ok"
	statusError = "error"
)

type config struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
	cacheName           string
}

// Option 定义 Hook 的配置选项。
type Option func(*config)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用全局 Provider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *config) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// WithCacheName 设置 cache 属性值，用于区分同一进程内的多个缓存实例。
// 默认为 "default"。
func WithCacheName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.cacheName = name
		}
	}
}

// NewHook 创建基于 OpenTelemetry 的 xmemo.Hook。
//
// 设计决策: key 不作为指标属性记录——key 由调用方任意选择，
// 作为属性会产生无界基数。需要按 key 观测时应使用日志而非指标。
func NewHook(opts ...Option) (xmemo.Hook, error) {
	cfg := &config{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
		cacheName:           "default",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	hits, err := meter.Int64Counter(
		metricHits,
		metric.WithDescription("memo cache hits"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmemootel: create hits counter failed: %w", err)
	}

	misses, err := meter.Int64Counter(
		metricMisses,
		metric.WithDescription("memo cache misses"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmemootel: create misses counter failed: %w", err)
	}

	builds, err := meter.Int64Counter(
		metricBuilds,
		metric.WithDescription("memo cache factory invocations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmemootel: create builds counter failed: %w", err)
	}

	buildDuration, err := meter.Float64Histogram(
		metricBuildDuration,
		metric.WithDescription("memo cache factory duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmemootel: create build duration histogram failed: %w", err)
	}

	releases, err := meter.Int64Counter(
		metricReleases,
		metric.WithDescription("memo cache value releases"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmemootel: create releases counter failed: %w", err)
	}

	return &otelHook{
		cacheAttr:     attribute.String("cache", cfg.cacheName),
		hits:          hits,
		misses:        misses,
		builds:        builds,
		buildDuration: buildDuration,
		releases:      releases,
	}, nil
}

type otelHook struct {
	cacheAttr     attribute.KeyValue
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	builds        metric.Int64Counter
	buildDuration metric.Float64Histogram
	releases      metric.Int64Counter
}

// OnHit 记录命中。
func (h *otelHook) OnHit(string) {
	h.hits.Add(context.Background(), 1, metric.WithAttributes(h.cacheAttr))
}

// OnMiss 记录未命中。
func (h *otelHook) OnMiss(string) {
	h.misses.Add(context.Background(), 1, metric.WithAttributes(h.cacheAttr))
}

// OnBuild 记录一次工厂调用及其耗时。
func (h *otelHook) OnBuild(_ string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(h.cacheAttr, statusAttr(err))
	h.builds.Add(context.Background(), 1, attrs)
	h.buildDuration.Record(context.Background(), elapsed.Seconds(), attrs)
}

// OnRelease 记录一次释放协议执行。
func (h *otelHook) OnRelease(_ string, err error) {
	h.releases.Add(context.Background(), 1,
		metric.WithAttributes(h.cacheAttr, statusAttr(err)))
}

func statusAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", statusError)
	}
	return attribute.String("status", statusOK)
}

var _ xmemo.Hook = (*otelHook)(nil)
