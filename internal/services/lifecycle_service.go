package services

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
	"context"
	"fmt"
	"strings"
	"time"
)

// LifecycleService orchestrates the mutating item operations that go through
// the external ledger: create, delete, transfer. Each one follows the same
// shape: the ledger accepts the request as pending, a PENDING operation row
// is recorded under the returned id, and the local stores/caches are brought
// in line. Completion arrives later through the ledger worker.
type LifecycleService struct {
	items        domain.ItemRepository
	operations   domain.OperationRepository
	transferJobs domain.TransferJobRepository
	itemCache    domain.ItemCache
	transferList domain.TransferListCache
	similarity   *SimilarityService
	ledger       domain.LedgerClient
	eventPub     domain.EventPublisher
	log          logger.Logger
}

func NewLifecycleService(
	items domain.ItemRepository,
	operations domain.OperationRepository,
	transferJobs domain.TransferJobRepository,
	itemCache domain.ItemCache,
	transferList domain.TransferListCache,
	similarity *SimilarityService,
	ledger domain.LedgerClient,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *LifecycleService {
	return &LifecycleService{
		items:        items,
		operations:   operations,
		transferJobs: transferJobs,
		itemCache:    itemCache,
		transferList: transferList,
		similarity:   similarity,
		ledger:       ledger,
		eventPub:     eventPub,
		log:          log,
	}
}

type CreateItemInput struct {
	Title             string
	Description       string
	Images            []string
	Category          string
	BasePrice         float64
	Seller            string
	AuctionEndSeconds int64
}

type CreateItemResult struct {
	ItemID      string
	OperationID string
}

// CreateItem registers a new listing. The item stays PENDING until the
// ledger worker confirms it out-of-band.
func (s *LifecycleService) CreateItem(ctx context.Context, input CreateItemInput) (*CreateItemResult, error) {
	itemID := utils.GenerateItemID()
	auctionEnd := time.Now().Add(time.Duration(input.AuctionEndSeconds) * time.Second)

	operationID, err := s.ledger.CreateItem(ctx, itemID, input.Seller)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:          itemID,
		Title:       input.Title,
		Description: input.Description,
		Images:      input.Images,
		Category:    strings.ToLower(input.Category),
		AuctionEnd:  auctionEnd,
		Rating:      -1,
		Status:      domain.ItemPending,
		BasePrice:   input.BasePrice,
	}
	if err := s.items.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	params := domain.OperationParams{ItemID: itemID, Owner: input.Seller}
	if err := s.operations.CreatePending(ctx, operationID, domain.OperationAdd, params); err != nil {
		return nil, fmt.Errorf("record operation: %w", err)
	}

	job := &domain.TransferJob{
		ID:        utils.GenerateID("job"),
		ItemID:    itemID,
		ItemName:  input.Title,
		Seller:    input.Seller,
		RunAt:     auctionEnd,
		Status:    domain.JobPending,
		CreatedAt: time.Now(),
	}
	if err := s.transferJobs.CreateJob(ctx, job); err != nil {
		s.log.Error("Failed to schedule auction-end job", "item_id", itemID, "error", err)
	}

	if err := s.eventPub.EnqueueRatingJob(ctx, itemID); err != nil {
		s.log.Error("Failed to push to rate queue", "item_id", itemID, "error", err)
	}

	s.log.Info("Item submitted", "item_id", itemID, "operation_id", operationID)
	return &CreateItemResult{ItemID: itemID, OperationID: operationID}, nil
}

// DeleteItem requests removal through the ledger, then cleans up every local
// trace of the item: reference index, detail cache, store row. The ledger
// side completes asynchronously.
func (s *LifecycleService) DeleteItem(ctx context.Context, itemID, seller string) (string, error) {
	operationID, err := s.ledger.DeleteItem(ctx, itemID, seller)
	if err != nil {
		return "", err
	}

	params := domain.OperationParams{ItemID: itemID, Owner: seller}
	if err := s.operations.CreatePending(ctx, operationID, domain.OperationDelete, params); err != nil {
		return "", fmt.Errorf("record operation: %w", err)
	}

	if err := s.similarity.Retire(ctx, itemID); err != nil {
		return "", fmt.Errorf("clean up similar items cache: %w", err)
	}

	if err := s.items.DeleteItem(ctx, itemID); err != nil {
		return "", fmt.Errorf("delete item from database: %w", err)
	}

	s.log.Info("Item deletion initiated", "item_id", itemID, "operation_id", operationID)
	return operationID, nil
}

// TransferItem finalizes a sale to the buyer holding the item on their
// transferring list. Eligibility comes from that list, not the item row: the
// settlement worker put it there when the buyer won the auction window.
func (s *LifecycleService) TransferItem(ctx context.Context, itemID, buyer string) (string, error) {
	records, err := s.transferList.GetTransferringItems(ctx, buyer)
	if err != nil {
		return "", fmt.Errorf("check item availability: %w", err)
	}

	eligible := false
	for _, record := range records {
		if record.ItemID == itemID {
			eligible = true
			break
		}
	}
	if !eligible {
		return "", domain.ErrItemNotTransferable
	}

	operationID, err := s.ledger.TransferItem(ctx, itemID, buyer)
	if err != nil {
		return "", err
	}

	params := domain.OperationParams{ItemID: itemID, Buyer: buyer}
	if err := s.operations.CreatePending(ctx, operationID, domain.OperationTransfer, params); err != nil {
		return "", fmt.Errorf("record operation: %w", err)
	}

	if err := s.transferList.RemoveTransferringItem(ctx, buyer, itemID); err != nil {
		s.log.Error("Failed to update transferring items", "buyer", buyer, "item_id", itemID, "error", err)
	}

	if err := s.items.UpdateItemStatus(ctx, itemID, domain.ItemSold); err != nil {
		return "", fmt.Errorf("update item status: %w", err)
	}

	// The item left circulation; drop its references best-effort.
	if err := s.similarity.Retire(ctx, itemID); err != nil {
		s.log.Error("Failed to clean up similar items", "item_id", itemID, "error", err)
	}

	s.log.Info("Item transfer initiated", "item_id", itemID, "buyer", buyer, "operation_id", operationID)
	return operationID, nil
}
