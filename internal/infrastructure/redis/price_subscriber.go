package redis

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

// PriceSubscriber follows the per-item price channels for the feed service.
// One subscription is held per item with at least one connected client.
type PriceSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewPriceSubscriber(client *redis.Client, log logger.Logger) *PriceSubscriber {
	return &PriceSubscriber{client: client, log: log}
}

// Subscribe starts following the item's channel and invokes handler for each
// decoded update. The returned stop function closes the subscription.
func (s *PriceSubscriber) Subscribe(ctx context.Context, itemID string, handler func(domain.PriceUpdate)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, itemID)

	// Wait for the subscription to be confirmed so no update is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	ch := pubsub.Channel()

	go func() {
		for msg := range ch {
			var update domain.PriceUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				s.log.Error("Failed to decode price update", "channel", itemID, "payload", msg.Payload, "error", err)
				continue
			}
			handler(update)
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			s.log.Error("Failed to close subscription", "channel", itemID, "error", err)
		}
	}, nil
}
