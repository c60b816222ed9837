package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"
)

type MySQLOperationRepository struct {
	db *sql.DB
}

func NewMySQLOperationRepository(db *sql.DB) *MySQLOperationRepository {
	return &MySQLOperationRepository{db: db}
}

func (r *MySQLOperationRepository) CreatePending(ctx context.Context, operationID string, opType domain.OperationType, params domain.OperationParams) error {
	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal operation params: %w", err)
	}

	now := time.Now()
	query := `
        INSERT INTO operations (operation_id, type, status, params, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		operationID, string(opType), string(domain.OperationPending), string(encoded), now, now)
	return err
}

func (r *MySQLOperationRepository) GetOperation(ctx context.Context, operationID string) (*domain.Operation, error) {
	query := `
        SELECT operation_id, type, status, params, COALESCE(error, ''), COALESCE(transaction_hash, ''), created_at, updated_at
        FROM operations WHERE operation_id = ?
    `

	var op domain.Operation
	var opType, status, params string

	err := r.db.QueryRowContext(ctx, query, operationID).Scan(
		&op.OperationID, &opType, &status, &params,
		&op.Error, &op.TransactionHash, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOperationNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(params), &op.Params); err != nil {
		return nil, fmt.Errorf("unmarshal operation params: %w", err)
	}
	op.Type = domain.OperationType(opType)
	op.Status = domain.OperationStatus(status)
	return &op, nil
}

func (r *MySQLOperationRepository) MarkCompleted(ctx context.Context, operationID, transactionHash string) error {
	query := `UPDATE operations SET status = ?, transaction_hash = ?, updated_at = ? WHERE operation_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(domain.OperationCompleted), transactionHash, time.Now(), operationID)
	return err
}

func (r *MySQLOperationRepository) MarkFailed(ctx context.Context, operationID, reason string) error {
	query := `UPDATE operations SET status = ?, error = ?, updated_at = ? WHERE operation_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(domain.OperationFailed), reason, time.Now(), operationID)
	return err
}
