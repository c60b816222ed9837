package domain

import (
	"context"
	"time"
)

// Repository interfaces
type ItemRepository interface {
	InsertItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, itemID string) (*Item, error)
	GetItems(ctx context.Context, itemIDs []string) ([]*Item, error)
	UpdateItemStatus(ctx context.Context, itemID string, status ItemStatus) error
	DeleteItem(ctx context.Context, itemID string) error
}

type BidRepository interface {
	InsertBid(ctx context.Context, bid *Bid) error
	HasBids(ctx context.Context, itemID string) (bool, error)
	GetLatestBids(ctx context.Context, itemID string, limit int) ([]*Bid, error)
}

// OperationRepository covers both sides of the operation lifecycle: this
// service inserts PENDING rows and reads status; MarkCompleted/MarkFailed
// define the write shape the external ledger worker must produce.
type OperationRepository interface {
	CreatePending(ctx context.Context, operationID string, opType OperationType, params OperationParams) error
	GetOperation(ctx context.Context, operationID string) (*Operation, error)
	MarkCompleted(ctx context.Context, operationID, transactionHash string) error
	MarkFailed(ctx context.Context, operationID, reason string) error
}

type TransferJobRepository interface {
	CreateJob(ctx context.Context, job *TransferJob) error
	GetDueJobs(ctx context.Context, before time.Time) ([]*TransferJob, error)
	MarkExecuted(ctx context.Context, jobID string) error
}

// Cache interfaces. Read methods return (nil, nil) on a clean miss so
// callers can tell absence apart from a cache failure.
type ItemCache interface {
	GetItem(ctx context.Context, itemID string) (*Item, error)
	GetItems(ctx context.Context, itemIDs []string) (map[string]*Item, error)
	SetItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, itemID string) error
}

type PriceCache interface {
	GetCurrentBid(ctx context.Context, itemID string) (*CurrentBid, error)
	SetCurrentBid(ctx context.Context, itemID string, bid *CurrentBid) error
}

type SimilarityCache interface {
	GetSimilarItems(ctx context.Context, itemID string) ([]string, error)
	SetSimilarItems(ctx context.Context, itemID string, similarIDs []string) error
	DeleteSimilarItems(ctx context.Context, itemID string) error
}

type TransferListCache interface {
	GetTransferringItems(ctx context.Context, userID string) ([]*TransferRecord, error)
	AddTransferringItem(ctx context.Context, userID string, record *TransferRecord) error
	RemoveTransferringItem(ctx context.Context, userID, itemID string) error
}

// Event interfaces
type EventPublisher interface {
	PublishPriceUpdate(ctx context.Context, itemID string, price float64) error
	PublishTransfer(ctx context.Context, record *TransferRecord, userID string) error
	EnqueueRatingJob(ctx context.Context, itemID string) error
}

// LedgerClient talks to the external ledger service. Calls return the
// operation id when the ledger accepted the request as pending; an explicit
// upstream rejection comes back as *LedgerRejection.
type LedgerClient interface {
	CreateItem(ctx context.Context, itemID, seller string) (string, error)
	DeleteItem(ctx context.Context, itemID, seller string) (string, error)
	TransferItem(ctx context.Context, itemID, buyer string) (string, error)
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// Price feed interfaces
type FeedConnection interface {
	Send(message []byte) error
	Close() error
	ItemID() string
}

// FeedConnectionManager fans price updates out to feed connections. Register
// and unregister return the watcher count after the change so callers can
// react to the first and last watcher without a separate racy read.
type FeedConnectionManager interface {
	RegisterConnection(itemID string, conn FeedConnection) int
	UnregisterConnection(itemID string, conn FeedConnection) int
	BroadcastToItem(itemID string, message []byte)
	ActiveItems() []string
}
