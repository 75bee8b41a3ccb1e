package xconfcache

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/lazykit/pkg/lazy/xmemo"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileCacheYAML(t *testing.T) {
	path := writeFile(t, "app.yaml", "server:\n  port: 8080\n  name: api\n")
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	conf, err := cache.Get(context.Background(), path, xmemo.NoArg{})
	require.NoError(t, err)
	assert.Equal(t, 8080, conf.Int("server.port"))
	assert.Equal(t, "api", conf.String("server.name"))
}

func TestFileCacheJSON(t *testing.T) {
	path := writeFile(t, "app.json", `{"server": {"port": 9090}}`)
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	conf, err := cache.Get(context.Background(), path, xmemo.NoArg{})
	require.NoError(t, err)
	assert.Equal(t, 9090, conf.Int("server.port"))
}

func TestFileCacheCompilesOnce(t *testing.T) {
	path := writeFile(t, "app.yaml", "a: 1\n")
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	ctx := context.Background()
	c1, err := cache.Get(ctx, path, xmemo.NoArg{})
	require.NoError(t, err)

	// 文件变更不被感知，命中返回首次编译的实例
	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o600))
	c2, err := cache.Get(ctx, path, xmemo.NoArg{})
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, c2.Int("a"))

	// Remove 后重新编译，看到新内容
	require.NoError(t, cache.Remove(ctx, path))
	c3, err := cache.Get(ctx, path, xmemo.NoArg{})
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)
	assert.Equal(t, 2, c3.Int("a"))
}

func TestFileCacheUnknownExtension(t *testing.T) {
	path := writeFile(t, "app.toml", "a = 1\n")
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	_, err := cache.Get(context.Background(), path, xmemo.NoArg{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFileCacheMissingFile(t *testing.T) {
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	_, err := cache.Get(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), xmemo.NoArg{})
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestFileCacheParseError(t *testing.T) {
	path := writeFile(t, "bad.json", "{not json")
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	_, err := cache.Get(context.Background(), path, xmemo.NoArg{})
	assert.ErrorIs(t, err, ErrParseFailed)

	// 解析失败的 key 未被缓存
	_, found, err := cache.TryGet(path)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileCacheEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	cache := New()
	defer func() { require.NoError(t, cache.Close()) }()

	conf, err := cache.Get(context.Background(), path, xmemo.NoArg{})
	require.NoError(t, err)
	assert.Empty(t, conf.Keys())
}

func TestFileCacheWithDelim(t *testing.T) {
	path := writeFile(t, "app.yaml", "server:\n  port: 8080\n")
	cache := New(WithDelim("/"))
	defer func() { require.NoError(t, cache.Close()) }()

	conf, err := cache.Get(context.Background(), path, xmemo.NoArg{})
	require.NoError(t, err)
	assert.Equal(t, 8080, conf.Int("server/port"))
}

func TestBytesCache(t *testing.T) {
	cache, err := NewFromBytes(FormatYAML)
	require.NoError(t, err)
	defer func() { require.NoError(t, cache.Close()) }()

	ctx := context.Background()
	conf, err := cache.Get(ctx, "tenant-a", []byte("quota: 100\n"))
	require.NoError(t, err)
	assert.Equal(t, 100, conf.Int("quota"))

	// 命中：第二次调用的数据被忽略
	conf2, err := cache.Get(ctx, "tenant-a", []byte("quota: 999\n"))
	require.NoError(t, err)
	assert.Same(t, conf, conf2)
	assert.Equal(t, 100, conf2.Int("quota"))
}

func TestBytesCacheInvalidFormat(t *testing.T) {
	_, err := NewFromBytes(Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBytesCacheEmptyData(t *testing.T) {
	cache, err := NewFromBytes(FormatJSON)
	require.NoError(t, err)
	defer func() { require.NoError(t, cache.Close()) }()

	conf, err := cache.Get(context.Background(), "empty", nil)
	require.NoError(t, err)
	assert.Empty(t, conf.Keys())
}

func TestFileCacheWithHook(t *testing.T) {
	path := writeFile(t, "app.yaml", "a: 1\n")
	h := &countingHook{}
	cache := New(WithHook(h))
	defer func() { require.NoError(t, cache.Close()) }()

	ctx := context.Background()
	_, err := cache.Get(ctx, path, xmemo.NoArg{})
	require.NoError(t, err)
	_, err = cache.Get(ctx, path, xmemo.NoArg{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), h.builds.Load())
	assert.Equal(t, int64(1), h.hits.Load())
}

type countingHook struct {
	xmemo.NoopHook
	hits   atomic.Int64
	builds atomic.Int64
}

func (h *countingHook) OnHit(string) { h.hits.Add(1) }
func (h *countingHook) OnBuild(string, time.Duration, error) {
	h.builds.Add(1)
}
