package redis

import (
	"auction-marketplace/internal/domain"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisTransferListCache keeps, per user, the list of items currently being
// transferred to them. Entries are JSON so LREM can match them verbatim.
type RedisTransferListCache struct {
	client *redis.Client
}

func NewRedisTransferListCache(client *redis.Client) *RedisTransferListCache {
	return &RedisTransferListCache{client: client}
}

func transferringItemsKey(userID string) string {
	return fmt.Sprintf("transferring_items:%s", userID)
}

func (r *RedisTransferListCache) GetTransferringItems(ctx context.Context, userID string) ([]*domain.TransferRecord, error) {
	entries, err := r.client.LRange(ctx, transferringItemsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.TransferRecord, 0, len(entries))
	for _, entry := range entries {
		var record domain.TransferRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, nil
}

func (r *RedisTransferListCache) AddTransferringItem(ctx context.Context, userID string, record *domain.TransferRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return r.client.RPush(ctx, transferringItemsKey(userID), string(data)).Err()
}

func (r *RedisTransferListCache) RemoveTransferringItem(ctx context.Context, userID, itemID string) error {
	key := transferringItemsKey(userID)

	entries, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		var record domain.TransferRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			continue
		}
		if record.ItemID == itemID {
			if err := r.client.LRem(ctx, key, 1, entry).Err(); err != nil {
				return err
			}
		}
	}

	return nil
}
