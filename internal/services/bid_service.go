package services

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"context"
	"fmt"
	"time"
)

// BidService serializes price progression for an item: the first accepted
// bid lands at the base price, every later one at the cached current price
// plus the caller's increment.
//
// Concurrent bids on the same item can interleave between the cache read and
// the cache write; both bids still reach the durable log, the cache simply
// keeps whichever write landed last. The log is authoritative, the cache is
// advisory.
type BidService struct {
	items    domain.ItemRepository
	bids     domain.BidRepository
	prices   domain.PriceCache
	eventPub domain.EventPublisher
	log      logger.Logger
}

func NewBidService(
	items domain.ItemRepository,
	bids domain.BidRepository,
	prices domain.PriceCache,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *BidService {
	return &BidService{
		items:    items,
		bids:     bids,
		prices:   prices,
		eventPub: eventPub,
		log:      log,
	}
}

// PlaceBid validates, prices and records a bid, returning the new price.
func (s *BidService) PlaceBid(ctx context.Context, itemID, bidder string, increment float64) (float64, error) {
	if increment <= 0 {
		return 0, domain.ErrInvalidIncrement
	}

	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item.Status != domain.ItemActive {
		return 0, domain.ErrItemNotBiddable
	}

	// Whether this is the opening bid is decided against the durable log,
	// not the cache: the cache is evictable and must not gate correctness.
	hasBids, err := s.bids.HasBids(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("check existing bids: %w", err)
	}

	var bidPrice float64
	if !hasBids {
		bidPrice = item.BasePrice
	} else {
		current, err := s.prices.GetCurrentBid(ctx, itemID)
		if err != nil {
			return 0, fmt.Errorf("retrieve current bid: %w", err)
		}
		if current == nil {
			return 0, domain.ErrCurrentBidMissing
		}
		bidPrice = current.BidPrice + increment
	}

	// Cache first: if this write fails the request aborts with no durable
	// side effect. The reverse order would leave a logged bid invisible to
	// every subsequent pricing read.
	currentBid := &domain.CurrentBid{BidPrice: bidPrice, Bidder: bidder}
	if err := s.prices.SetCurrentBid(ctx, itemID, currentBid); err != nil {
		return 0, fmt.Errorf("store bid in cache: %w", err)
	}

	bid := &domain.Bid{
		ItemID:    itemID,
		Bidder:    bidder,
		BidPrice:  bidPrice,
		Timestamp: time.Now(),
	}
	if err := s.bids.InsertBid(ctx, bid); err != nil {
		return 0, fmt.Errorf("record bid: %w", err)
	}

	if err := s.eventPub.PublishPriceUpdate(ctx, itemID, bidPrice); err != nil {
		s.log.Error("Failed to publish bid update", "item_id", itemID, "error", err)
	}

	s.log.Info("Bid placed", "item_id", itemID, "bidder", bidder, "price", bidPrice)
	return bidPrice, nil
}
