package xmemootel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

// newTestMeterProvider 创建用于测试的 MeterProvider
func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

// sumByName 汇总指定名称的 Int64 counter 数据点。
func sumByName(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return 0, false
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestNewHookDefault(t *testing.T) {
	hook, err := NewHook()
	require.NoError(t, err)
	require.NotNil(t, hook)
}

func TestNewHookWithOptions(t *testing.T) {
	mp, _ := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	hook, err := NewHook(
		WithInstrumentationName("test-instrumentation"),
		WithMeterProvider(mp),
		WithCacheName("clients"),
	)
	require.NoError(t, err)
	require.NotNil(t, hook)
}

func TestHookRecordsCounters(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	hook, err := NewHook(WithMeterProvider(mp))
	require.NoError(t, err)

	hook.OnMiss("k")
	hook.OnBuild("k", 5*time.Millisecond, nil)
	hook.OnHit("k")
	hook.OnHit("k")
	hook.OnRelease("k", nil)
	hook.OnRelease("k", errors.New("boom"))

	rm := collect(t, reader)

	hits, ok := sumByName(rm, metricHits)
	require.True(t, ok)
	assert.Equal(t, int64(2), hits)

	misses, ok := sumByName(rm, metricMisses)
	require.True(t, ok)
	assert.Equal(t, int64(1), misses)

	builds, ok := sumByName(rm, metricBuilds)
	require.True(t, ok)
	assert.Equal(t, int64(1), builds)

	releases, ok := sumByName(rm, metricReleases)
	require.True(t, ok)
	assert.Equal(t, int64(2), releases)
}

func TestHookRecordsBuildDuration(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	hook, err := NewHook(WithMeterProvider(mp))
	require.NoError(t, err)

	hook.OnBuild("k", 250*time.Millisecond, nil)

	rm := collect(t, reader)

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != metricBuildDuration {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.InDelta(t, 0.25, hist.DataPoints[0].Sum, 0.001)
			found = true
		}
	}
	assert.True(t, found)
}

func TestHookAttachedToCache(t *testing.T) {
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	hook, err := NewHook(WithMeterProvider(mp), WithCacheName("test"))
	require.NoError(t, err)

	c := xmemo.New(
		xmemo.WithStrategy[string, xmemo.NoArg](xmemo.ByKey[string, xmemo.NoArg](
			func(key string) (string, error) { return key, nil })),
		xmemo.WithHook[string, xmemo.NoArg](hook),
	)
	defer func() { require.NoError(t, c.Close()) }()

	ctx := context.Background()
	_, err = c.Get(ctx, "a", xmemo.NoArg{})
	require.NoError(t, err)
	_, err = c.Get(ctx, "a", xmemo.NoArg{})
	require.NoError(t, err)

	rm := collect(t, reader)

	hits, ok := sumByName(rm, metricHits)
	require.True(t, ok)
	assert.Equal(t, int64(1), hits)

	misses, ok := sumByName(rm, metricMisses)
	require.True(t, ok)
	assert.Equal(t, int64(1), misses)

	builds, ok := sumByName(rm, metricBuilds)
	require.True(t, ok)
	assert.Equal(t, int64(1), builds)
}
