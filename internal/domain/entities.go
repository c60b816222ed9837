package domain

import (
	"time"
)

// ItemStatus values travel as strings: they are stored verbatim in the items
// table and in the serialized cache payloads.
type ItemStatus string

const (
	ItemPending      ItemStatus = "PENDING"
	ItemActive       ItemStatus = "ACTIVE"
	ItemTransferring ItemStatus = "TRANSFERRING"
	ItemSold         ItemStatus = "SOLD"
	ItemUnsold       ItemStatus = "UNSOLD"
)

type Item struct {
	ID          string     `json:"item_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	Category    string     `json:"category"`
	AuctionEnd  time.Time  `json:"auction_end"`
	Rating      float64    `json:"rating"`
	Status      ItemStatus `json:"status"`
	BasePrice   float64    `json:"base_price"`
}

// Bid is an append-only log record. Rows are never updated or deleted; the
// log stays authoritative even when the cached current bid diverges.
type Bid struct {
	ItemID    string    `json:"item_id"`
	Bidder    string    `json:"bidder"`
	BidPrice  float64   `json:"bid_price"`
	Timestamp time.Time `json:"timestamp"`
}

// CurrentBid is the cache-resident leading-price pointer for an item. It is
// derived state: reconstructable from the bid log if the cache is lost.
type CurrentBid struct {
	BidPrice float64 `json:"bid_price"`
	Bidder   string  `json:"bidder"`
}

type OperationType string

const (
	OperationAdd      OperationType = "ADD"
	OperationTransfer OperationType = "TRANSFER"
	OperationDelete   OperationType = "DELETE"
)

type OperationStatus string

const (
	OperationPending   OperationStatus = "PENDING"
	OperationCompleted OperationStatus = "COMPLETED"
	OperationFailed    OperationStatus = "FAILED"
)

// OperationParams carries the inputs the external ledger worker needs to
// finish an operation. Exactly one of Owner/Buyer is set depending on type.
type OperationParams struct {
	ItemID string `json:"item_id"`
	Owner  string `json:"owner,omitempty"`
	Buyer  string `json:"buyer,omitempty"`
}

// Operation tracks a long-running ledger action. This service only ever
// creates PENDING rows and reads them back; the terminal transition is
// written by the ledger worker.
type Operation struct {
	OperationID     string          `json:"operation_id"`
	Type            OperationType   `json:"type"`
	Status          OperationStatus `json:"status"`
	Params          OperationParams `json:"params"`
	Error           string          `json:"error,omitempty"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OperationView is the caller-facing status projection.
type OperationView struct {
	Status OperationStatus `json:"operation_status"`
	Type   OperationType   `json:"operation"`
	ItemID string          `json:"item_id,omitempty"`
}

// TransferRecord is one entry of a user's transferring-items list.
type TransferRecord struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`
}

// PriceUpdate is published on the per-item channel after every accepted bid.
// Price is serialized as a string on the wire, which is what the feed
// consumers already parse.
type PriceUpdate struct {
	ItemID string `json:"item_id"`
	Price  string `json:"price"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobExecuted JobStatus = "executed"
)

// TransferJob schedules the auction-end settlement for an item.
type TransferJob struct {
	ID        string
	ItemID    string
	ItemName  string
	Seller    string
	RunAt     time.Time
	Status    JobStatus
	CreatedAt time.Time
}
