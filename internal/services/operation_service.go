package services

import (
	"auction-marketplace/internal/domain"
	"context"
)

// OperationService is the read path over ledger operations. State is written
// elsewhere: PENDING rows by the lifecycle service, terminal rows by the
// external ledger worker.
type OperationService struct {
	operations domain.OperationRepository
}

func NewOperationService(operations domain.OperationRepository) *OperationService {
	return &OperationService{operations: operations}
}

// GetStatus reports an operation's current state. An unknown id is
// ErrOperationNotFound, which is distinct from a known-but-PENDING row.
func (s *OperationService) GetStatus(ctx context.Context, operationID string) (*domain.OperationView, error) {
	op, err := s.operations.GetOperation(ctx, operationID)
	if err != nil {
		return nil, err
	}

	return &domain.OperationView{
		Status: op.Status,
		Type:   op.Type,
		ItemID: op.Params.ItemID,
	}, nil
}
