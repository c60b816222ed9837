package mysql

import (
	"context"
	"database/sql"

	"auction-marketplace/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

func (r *MySQLBidRepository) InsertBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (item_id, bidder, bid_price, timestamp)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		bid.ItemID, bid.Bidder, bid.BidPrice, bid.Timestamp)
	return err
}

func (r *MySQLBidRepository) HasBids(ctx context.Context, itemID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bids WHERE item_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *MySQLBidRepository) GetLatestBids(ctx context.Context, itemID string, limit int) ([]*domain.Bid, error) {
	query := `
        SELECT item_id, bidder, bid_price, timestamp
        FROM bids
        WHERE item_id = ?
        ORDER BY timestamp DESC
        LIMIT ?
    `

	rows, err := r.db.QueryContext(ctx, query, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		if err := rows.Scan(&bid.ItemID, &bid.Bidder, &bid.BidPrice, &bid.Timestamp); err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}

	return bids, rows.Err()
}
