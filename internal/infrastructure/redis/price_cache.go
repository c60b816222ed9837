package redis

import (
	"auction-marketplace/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisPriceCache struct {
	client *redis.Client
}

func NewRedisPriceCache(client *redis.Client) *RedisPriceCache {
	return &RedisPriceCache{client: client}
}

func currentBidKey(itemID string) string {
	return fmt.Sprintf("current_bid:%s", itemID)
}

func (r *RedisPriceCache) GetCurrentBid(ctx context.Context, itemID string) (*domain.CurrentBid, error) {
	data, err := r.client.Get(ctx, currentBidKey(itemID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var bid domain.CurrentBid
	if err := json.Unmarshal([]byte(data), &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// SetCurrentBid writes without a TTL: the entry has to outlive any fixed
// expiry since an auction runs until its end timestamp.
func (r *RedisPriceCache) SetCurrentBid(ctx context.Context, itemID string, bid *domain.CurrentBid) error {
	data, err := json.Marshal(bid)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, currentBidKey(itemID), string(data), 0).Err()
}
