package xmemo

import "context"

// Keys 返回当前所有 key 的独立快照，顺序不确定。
// 快照在锁内复制：锁释放后 map 可能立即被其他操作修改。
// 缓存已关闭时返回 [ErrClosed]。ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := c.snapshot(ctx, func(k string, _ T) {
		keys = append(keys, k)
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// KeysSync 是 Keys 的阻塞形式。
func (c *Cache[T, A]) KeysSync() ([]string, error) {
	var keys []string
	err := c.snapshotSync(func(k string, _ T) {
		keys = append(keys, k)
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Values 返回当前所有值的独立快照，顺序不确定。
// 缓存已关闭时返回 [ErrClosed]。ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Values(ctx context.Context) ([]T, error) {
	var values []T
	err := c.snapshot(ctx, func(_ string, v T) {
		values = append(values, v)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// ValuesSync 是 Values 的阻塞形式。
func (c *Cache[T, A]) ValuesSync() ([]T, error) {
	var values []T
	err := c.snapshotSync(func(_ string, v T) {
		values = append(values, v)
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Entries 返回当前所有条目的独立快照。
// 缓存已关闭时返回 [ErrClosed]。ctx 不得为 nil，否则 panic。
func (c *Cache[T, A]) Entries(ctx context.Context) (map[string]T, error) {
	entries := make(map[string]T)
	err := c.snapshot(ctx, func(k string, v T) {
		entries[k] = v
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EntriesSync 是 Entries 的阻塞形式。
func (c *Cache[T, A]) EntriesSync() (map[string]T, error) {
	entries := make(map[string]T)
	err := c.snapshotSync(func(k string, v T) {
		entries[k] = v
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// snapshot 在锁内遍历所有条目（锁等待可被 ctx 取消）。
func (c *Cache[T, A]) snapshot(ctx context.Context, visit func(key string, v T)) error {
	if ctx == nil {
		panic("xmemo: nil Context")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed.Load() {
		return ErrClosed
	}

	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.lock }()

	return c.rangeLocked(visit)
}

// snapshotSync 是 snapshot 的阻塞形式。
func (c *Cache[T, A]) snapshotSync(visit func(key string, v T)) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.lock <- struct{}{}
	defer func() { <-c.lock }()

	return c.rangeLocked(visit)
}

// rangeLocked 在锁内做关闭复查并遍历。调用方必须持有 c.lock。
func (c *Cache[T, A]) rangeLocked(visit func(key string, v T)) error {
	if c.closed.Load() {
		return ErrClosed
	}
	m := c.entries.Load()
	if m == nil {
		return ErrClosed
	}
	m.Range(func(k, v any) bool {
		visit(k.(string), v.(T))
		return true
	})
	return nil
}
