package services

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"context"
)

// ItemService is the read-through path for item details: cache first, store
// on a miss, cache repopulated from what the store returned.
type ItemService struct {
	items      domain.ItemRepository
	itemCache  domain.ItemCache
	prices     domain.PriceCache
	similarity *SimilarityService
	log        logger.Logger
}

func NewItemService(
	items domain.ItemRepository,
	itemCache domain.ItemCache,
	prices domain.PriceCache,
	similarity *SimilarityService,
	log logger.Logger,
) *ItemService {
	return &ItemService{
		items:      items,
		itemCache:  itemCache,
		prices:     prices,
		similarity: similarity,
		log:        log,
	}
}

// ItemDetail is the composed item view: the item itself, the advisory
// current price (-1 when no bid is cached), and resolved similar items.
type ItemDetail struct {
	Item            *domain.Item   `json:"item_details"`
	CurrentBidPrice float64        `json:"current_bid_price"`
	SimilarItems    []*domain.Item `json:"similar_items_details"`
}

// GetItem returns the item by id, populating the cache on a store hit.
// Cache read failures degrade to misses; only store failures surface.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	cached, err := s.itemCache.GetItem(ctx, itemID)
	if err != nil {
		s.log.Warn("Item cache read failed, falling through to store", "item_id", itemID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.itemCache.SetItem(ctx, item); err != nil {
		s.log.Error("Failed to populate item cache", "item_id", itemID, "error", err)
	}

	return item, nil
}

// GetItems resolves a batch of ids: one multi-get against the cache, one
// store query for exactly the misses, then a per-item cache back-fill.
// Ids with no record anywhere are silently omitted.
func (s *ItemService) GetItems(ctx context.Context, itemIDs []string) ([]*domain.Item, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	cached, err := s.itemCache.GetItems(ctx, itemIDs)
	if err != nil {
		s.log.Warn("Item cache multi-get failed, falling through to store", "error", err)
		cached = map[string]*domain.Item{}
	}

	items := make([]*domain.Item, 0, len(itemIDs))
	var missing []string
	for _, id := range itemIDs {
		if item, ok := cached[id]; ok {
			items = append(items, item)
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return items, nil
	}

	fetched, err := s.items.GetItems(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, item := range fetched {
		if err := s.itemCache.SetItem(ctx, item); err != nil {
			s.log.Error("Failed to back-fill item cache", "item_id", item.ID, "error", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// GetItemDetail composes the item page payload.
func (s *ItemService) GetItemDetail(ctx context.Context, itemID string) (*ItemDetail, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail := &ItemDetail{
		Item:            item,
		CurrentBidPrice: -1,
		SimilarItems:    []*domain.Item{},
	}

	// The current bid and similar items are decoration; their cache
	// failures never fail the item read.
	current, err := s.prices.GetCurrentBid(ctx, itemID)
	if err != nil {
		s.log.Warn("Current bid lookup failed", "item_id", itemID, "error", err)
	} else if current != nil {
		detail.CurrentBidPrice = current.BidPrice
	}

	similarIDs, err := s.similarity.GetSimilar(ctx, itemID)
	if err != nil {
		s.log.Warn("Similar items lookup failed", "item_id", itemID, "error", err)
		return detail, nil
	}

	if len(similarIDs) > 0 {
		similar, err := s.GetItems(ctx, similarIDs)
		if err != nil {
			s.log.Warn("Similar item details lookup failed", "item_id", itemID, "error", err)
			return detail, nil
		}
		detail.SimilarItems = similar
	}

	return detail, nil
}
