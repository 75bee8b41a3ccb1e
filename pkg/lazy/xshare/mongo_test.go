package xshare

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDisconnecter 记录 Disconnect 调用。
type fakeDisconnecter struct {
	calls   int
	lastCtx context.Context
	err     error
}

func (f *fakeDisconnecter) Disconnect(ctx context.Context) error {
	f.calls++
	f.lastCtx = ctx
	return f.err
}

func TestMongoHandleShutdownDelegates(t *testing.T) {
	fake := &fakeDisconnecter{}
	h := newMongoHandle(nil, fake)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	require.NoError(t, h.Shutdown(ctx))

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "v", fake.lastCtx.Value(ctxKey{}))
}

func TestMongoHandleShutdownError(t *testing.T) {
	boom := errors.New("disconnect boom")
	h := newMongoHandle(nil, &fakeDisconnecter{err: boom})

	assert.ErrorIs(t, h.Shutdown(context.Background()), boom)
}

// 集成测试：需要可达的 MongoDB，通过 LAZYKIT_MONGO_URI 启用。
func TestMongoClientsIntegration(t *testing.T) {
	uri := os.Getenv("LAZYKIT_MONGO_URI")
	if uri == "" {
		t.Skip("LAZYKIT_MONGO_URI not set, skipping integration test")
	}

	clients := NewMongoClients()
	defer func() { require.NoError(t, clients.Close()) }()

	ctx := context.Background()
	h1, err := clients.Get(ctx, uri)
	require.NoError(t, err)
	h2, err := clients.Get(ctx, uri)
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, 1, clients.Len())

	require.NoError(t, h1.Client().Ping(ctx, nil))

	require.NoError(t, clients.Remove(ctx, uri))
	assert.Equal(t, 0, clients.Len())

	// 重建得到新句柄
	h3, err := clients.Get(ctx, uri)
	require.NoError(t, err)
	assert.NotSame(t, h1, h3)
}
