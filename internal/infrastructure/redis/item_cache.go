package redis

import (
	"auction-marketplace/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisItemCache(client *redis.Client, ttl time.Duration) *RedisItemCache {
	return &RedisItemCache{client: client, ttl: ttl}
}

func itemDetailsKey(itemID string) string {
	return fmt.Sprintf("item_details:%s", itemID)
}

func (r *RedisItemCache) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	data, err := r.client.Get(ctx, itemDetailsKey(itemID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var item domain.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisItemCache) GetItems(ctx context.Context, itemIDs []string) (map[string]*domain.Item, error) {
	if len(itemIDs) == 0 {
		return map[string]*domain.Item{}, nil
	}

	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = itemDetailsKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make(map[string]*domain.Item, len(values))
	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			continue
		}

		var item domain.Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			// Corrupt entry behaves like a miss.
			continue
		}
		items[itemIDs[i]] = &item
	}

	return items, nil
}

func (r *RedisItemCache) SetItem(ctx context.Context, item *domain.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, itemDetailsKey(item.ID), string(data), r.ttl).Err()
}

func (r *RedisItemCache) DeleteItem(ctx context.Context, itemID string) error {
	return r.client.Del(ctx, itemDetailsKey(itemID)).Err()
}
