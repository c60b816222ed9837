package services

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"context"
	"fmt"
)

// SimilarityService owns the similar-items reference index. The index is
// populated out-of-band by the recommendation job; this service reads it and
// keeps it consistent when an item leaves circulation.
type SimilarityService struct {
	similarity domain.SimilarityCache
	itemCache  domain.ItemCache
	log        logger.Logger
}

func NewSimilarityService(similarity domain.SimilarityCache, itemCache domain.ItemCache, log logger.Logger) *SimilarityService {
	return &SimilarityService{
		similarity: similarity,
		itemCache:  itemCache,
		log:        log,
	}
}

func (s *SimilarityService) GetSimilar(ctx context.Context, itemID string) ([]string, error) {
	return s.similarity.GetSimilarItems(ctx, itemID)
}

// Retire removes an item from the reference index when it is deleted or
// sold: every item reachable through the retiring item's outbound list drops
// its inbound reference, then the item's own keys go away.
//
// The fan-out is non-transactional on purpose. Each member update stands
// alone; a failure is logged and the cleanup moves on, since partial cleanup
// beats blocking the retirement.
func (s *SimilarityService) Retire(ctx context.Context, itemID string) error {
	similarIDs, err := s.similarity.GetSimilarItems(ctx, itemID)
	if err != nil {
		return fmt.Errorf("fetch similar items: %w", err)
	}

	for _, similarID := range similarIDs {
		refs, err := s.similarity.GetSimilarItems(ctx, similarID)
		if err != nil {
			s.log.Error("Failed to fetch reverse references", "similar_item_id", similarID, "error", err)
			continue
		}
		if refs == nil {
			continue
		}

		remaining := make([]string, 0, len(refs))
		for _, ref := range refs {
			if ref != itemID {
				remaining = append(remaining, ref)
			}
		}

		if len(remaining) == 0 {
			if err := s.similarity.DeleteSimilarItems(ctx, similarID); err != nil {
				s.log.Error("Failed to delete similar items", "similar_item_id", similarID, "error", err)
			}
		} else {
			if err := s.similarity.SetSimilarItems(ctx, similarID, remaining); err != nil {
				s.log.Error("Failed to set similar items", "similar_item_id", similarID, "error", err)
			}
		}
	}

	if err := s.similarity.DeleteSimilarItems(ctx, itemID); err != nil {
		s.log.Error("Failed to delete similar items", "item_id", itemID, "error", err)
	}
	if err := s.itemCache.DeleteItem(ctx, itemID); err != nil {
		s.log.Error("Failed to delete item details", "item_id", itemID, "error", err)
	}

	return nil
}
