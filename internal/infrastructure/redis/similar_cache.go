package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

// RedisSimilarityCache stores each item's similar-items set as a
// comma-joined id list, the format the recommendation job writes.
type RedisSimilarityCache struct {
	client *redis.Client
}

func NewRedisSimilarityCache(client *redis.Client) *RedisSimilarityCache {
	return &RedisSimilarityCache{client: client}
}

func similarItemsKey(itemID string) string {
	return fmt.Sprintf("similar_items:%s", itemID)
}

func (r *RedisSimilarityCache) GetSimilarItems(ctx context.Context, itemID string) ([]string, error) {
	data, err := r.client.Get(ctx, similarItemsKey(itemID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, id := range strings.Split(data, ",") {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *RedisSimilarityCache) SetSimilarItems(ctx context.Context, itemID string, similarIDs []string) error {
	if len(similarIDs) == 0 {
		return r.DeleteSimilarItems(ctx, itemID)
	}

	return r.client.Set(ctx, similarItemsKey(itemID), strings.Join(similarIDs, ","), 0).Err()
}

func (r *RedisSimilarityCache) DeleteSimilarItems(ctx context.Context, itemID string) error {
	return r.client.Del(ctx, similarItemsKey(itemID)).Err()
}
