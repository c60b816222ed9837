package mysql

import (
	"auction-marketplace/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) InsertItem(ctx context.Context, item *domain.Item) error {
	images, err := json.Marshal(item.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
        INSERT INTO items (id, title, description, images, category, auction_end, rating, status, base_price)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, string(images), item.Category,
		item.AuctionEnd, item.Rating, string(item.Status), item.BasePrice)
	return err
}

func (r *MySQLItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
        SELECT id, title, description, images, category, auction_end, rating, status, base_price
        FROM items WHERE id = ?
    `

	item, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *MySQLItemRepository) GetItems(ctx context.Context, itemIDs []string) ([]*domain.Item, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(itemIDs)), ",")
	query := fmt.Sprintf(`
        SELECT id, title, description, images, category, auction_end, rating, status, base_price
        FROM items WHERE id IN (%s)
    `, placeholders)

	args := make([]interface{}, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *MySQLItemRepository) UpdateItemStatus(ctx context.Context, itemID string, status domain.ItemStatus) error {
	query := `UPDATE items SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(status), itemID)
	return err
}

func (r *MySQLItemRepository) DeleteItem(ctx context.Context, itemID string) error {
	query := `DELETE FROM items WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, itemID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var images, status string

	err := row.Scan(&item.ID, &item.Title, &item.Description, &images,
		&item.Category, &item.AuctionEnd, &item.Rating, &status, &item.BasePrice)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	item.Status = domain.ItemStatus(status)
	return &item, nil
}
