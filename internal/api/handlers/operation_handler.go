package handlers

import (
	"context"
	"net/http"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

type OperationReader interface {
	GetStatus(ctx context.Context, operationID string) (*domain.OperationView, error)
}

type OperationHandler struct {
	operations OperationReader
	log        logger.Logger
}

func NewOperationHandler(operations OperationReader, log logger.Logger) *OperationHandler {
	return &OperationHandler{operations: operations, log: log}
}

type OperationStatusResponse struct {
	Status          string `json:"status"`
	OperationStatus string `json:"operation_status"`
	Operation       string `json:"operation"`
	ItemID          string `json:"item_id,omitempty"`
}

func (h *OperationHandler) GetStatus(c echo.Context) error {
	operationID := c.Param("operation_id")

	view, err := h.operations.GetStatus(c.Request().Context(), operationID)
	if err != nil {
		h.log.Error("Failed to get operation status", "operation_id", operationID, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OperationStatusResponse{
		Status:          "success",
		OperationStatus: string(view.Status),
		Operation:       string(view.Type),
		ItemID:          view.ItemID,
	})
}
