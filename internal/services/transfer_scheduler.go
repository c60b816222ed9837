package services

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TransferScheduler settles auctions whose end time has passed. Leadership
// is required so a multi-instance deployment settles each auction once.
//
// Settlement seeds the transfer: no bids means UNSOLD, otherwise the item
// goes TRANSFERRING and lands on the winner's transferring list. The buyer
// relay beyond the winner is handled by the transfer worker downstream.
type TransferScheduler struct {
	cron         *cron.Cron
	jobs         domain.TransferJobRepository
	items        domain.ItemRepository
	bids         domain.BidRepository
	itemCache    domain.ItemCache
	transferList domain.TransferListCache
	eventPub     domain.EventPublisher
	leader       domain.LeaderElection
	instanceID   string
	interval     time.Duration
	log          logger.Logger
}

func NewTransferScheduler(
	jobs domain.TransferJobRepository,
	items domain.ItemRepository,
	bids domain.BidRepository,
	itemCache domain.ItemCache,
	transferList domain.TransferListCache,
	eventPub domain.EventPublisher,
	leader domain.LeaderElection,
	instanceID string,
	interval time.Duration,
	log logger.Logger,
) *TransferScheduler {
	return &TransferScheduler{
		cron:         cron.New(cron.WithSeconds()),
		jobs:         jobs,
		items:        items,
		bids:         bids,
		itemCache:    itemCache,
		transferList: transferList,
		eventPub:     eventPub,
		leader:       leader,
		instanceID:   instanceID,
		interval:     interval,
		log:          log,
	}
}

func (s *TransferScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting transfer scheduler", "interval", s.interval)

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.processDueJobs(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *TransferScheduler) Stop() error {
	s.log.Info("Stopping transfer scheduler")
	s.cron.Stop()
	return nil
}

func (s *TransferScheduler) processDueJobs(ctx context.Context) {
	isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
	if err != nil {
		s.log.Error("Leadership check failed", "error", err)
		return
	}
	if !isLeader {
		return
	}

	jobs, err := s.jobs.GetDueJobs(ctx, time.Now())
	if err != nil {
		s.log.Error("Failed to get due jobs", "error", err)
		return
	}

	for _, job := range jobs {
		s.log.Info("Settling auction", "job_id", job.ID, "item_id", job.ItemID)

		if err := s.settle(ctx, job); err != nil {
			s.log.Error("Failed to settle auction", "job_id", job.ID, "item_id", job.ItemID, "error", err)
			// Left pending, will retry on the next tick.
			continue
		}

		if err := s.jobs.MarkExecuted(ctx, job.ID); err != nil {
			s.log.Error("Failed to mark job executed", "job_id", job.ID, "error", err)
		}
	}
}

func (s *TransferScheduler) settle(ctx context.Context, job *domain.TransferJob) error {
	bids, err := s.bids.GetLatestBids(ctx, job.ItemID, 5)
	if err != nil {
		return fmt.Errorf("fetch latest bids: %w", err)
	}

	if len(bids) == 0 {
		if err := s.items.UpdateItemStatus(ctx, job.ItemID, domain.ItemUnsold); err != nil {
			return fmt.Errorf("mark unsold: %w", err)
		}
		s.invalidateItem(ctx, job.ItemID)
		return nil
	}

	if err := s.items.UpdateItemStatus(ctx, job.ItemID, domain.ItemTransferring); err != nil {
		return fmt.Errorf("mark transferring: %w", err)
	}
	s.invalidateItem(ctx, job.ItemID)

	winner := bids[0]
	record := &domain.TransferRecord{
		ItemID:   job.ItemID,
		ItemName: job.ItemName,
		Price:    winner.BidPrice,
	}
	if err := s.transferList.AddTransferringItem(ctx, winner.Bidder, record); err != nil {
		return fmt.Errorf("seed transferring list: %w", err)
	}

	if err := s.eventPub.PublishTransfer(ctx, record, winner.Bidder); err != nil {
		s.log.Error("Failed to publish transfer notification", "item_id", job.ItemID, "error", err)
	}

	return nil
}

// The status change retires the cached detail entry; TTL expiry alone would
// serve a stale status for up to an hour.
func (s *TransferScheduler) invalidateItem(ctx context.Context, itemID string) {
	if err := s.itemCache.DeleteItem(ctx, itemID); err != nil {
		s.log.Error("Failed to invalidate item cache", "item_id", itemID, "error", err)
	}
}
