package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetOrLoadList 列表读穿：缓存存 JSON 数组；结果永不为 nil，空表返回 []
func GetOrLoadList[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]T, error)) ([]T, error) {
	if c == nil {
		return nonNil(load(ctx))
	}
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		items, err := nonNil(load(ctx))
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nonNil(out, nil)
}

func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
