package redis

import (
	"auction-marketplace/internal/domain"
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const rateQueue = "rate"

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

// PublishPriceUpdate notifies feed subscribers on the item's own channel.
func (r *EventPublisherImpl) PublishPriceUpdate(ctx context.Context, itemID string, price float64) error {
	update := domain.PriceUpdate{
		ItemID: itemID,
		Price:  strconv.FormatFloat(price, 'f', -1, 64),
	}

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, itemID, string(data)).Err()
}

func (r *EventPublisherImpl) PublishTransfer(ctx context.Context, record *domain.TransferRecord, userID string) error {
	payload := map[string]interface{}{
		"item_id":   record.ItemID,
		"item_name": record.ItemName,
		"price":     record.Price,
		"user_id":   userID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, "transfer", string(data)).Err()
}

// EnqueueRatingJob hands a freshly created item to the downstream rating
// worker via the rate queue.
func (r *EventPublisherImpl) EnqueueRatingJob(ctx context.Context, itemID string) error {
	data, err := json.Marshal(map[string]string{"item_id": itemID})
	if err != nil {
		return err
	}

	return r.client.RPush(ctx, rateQueue, string(data)).Err()
}
