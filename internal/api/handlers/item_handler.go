package handlers

import (
	"context"
	"net/http"

	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ItemReader interface {
	GetItemDetail(ctx context.Context, itemID string) (*services.ItemDetail, error)
}

type ItemLifecycle interface {
	CreateItem(ctx context.Context, input services.CreateItemInput) (*services.CreateItemResult, error)
	DeleteItem(ctx context.Context, itemID, seller string) (string, error)
	TransferItem(ctx context.Context, itemID, buyer string) (string, error)
}

type ItemHandler struct {
	reader    ItemReader
	lifecycle ItemLifecycle
	log       logger.Logger
}

func NewItemHandler(reader ItemReader, lifecycle ItemLifecycle, log logger.Logger) *ItemHandler {
	return &ItemHandler{reader: reader, lifecycle: lifecycle, log: log}
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	itemID := c.QueryParam("item_id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Missing item_id parameter",
		})
	}

	detail, err := h.reader.GetItemDetail(c.Request().Context(), itemID)
	if err != nil {
		h.log.Error("Failed to get item", "item_id", itemID, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":                "success",
		"item_details":          detail.Item,
		"current_bid_price":     detail.CurrentBidPrice,
		"similar_items_details": detail.SimilarItems,
	})
}

type CreateItemRequest struct {
	ItemDetails struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
		Category    string   `json:"category"`
		BasePrice   float64  `json:"base_price"`
	} `json:"item_details"`
	Seller     string `json:"seller"`
	AuctionEnd int64  `json:"auction_end"`
}

type CreateItemResponse struct {
	Status      string `json:"status"`
	ItemID      string `json:"item_id"`
	OperationID string `json:"operation_id,omitempty"`
	Message     string `json:"message"`
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	result, err := h.lifecycle.CreateItem(c.Request().Context(), services.CreateItemInput{
		Title:             req.ItemDetails.Title,
		Description:       req.ItemDetails.Description,
		Images:            req.ItemDetails.Images,
		Category:          req.ItemDetails.Category,
		BasePrice:         req.ItemDetails.BasePrice,
		Seller:            req.Seller,
		AuctionEndSeconds: req.AuctionEnd,
	})
	if err != nil {
		h.log.Error("Failed to create item", "seller", req.Seller, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CreateItemResponse{
		Status:      "success",
		ItemID:      result.ItemID,
		OperationID: result.OperationID,
		Message:     "Item successfully submitted, it will shortly be up for auction",
	})
}

type DeleteItemRequest struct {
	Seller string `json:"seller"`
}

type OperationResponse struct {
	Status      string `json:"status"`
	OperationID string `json:"operation_id,omitempty"`
	Message     string `json:"message"`
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	itemID := c.Param("item_id")

	var req DeleteItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	operationID, err := h.lifecycle.DeleteItem(c.Request().Context(), itemID, req.Seller)
	if err != nil {
		h.log.Error("Failed to delete item", "item_id", itemID, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OperationResponse{
		Status:      "success",
		OperationID: operationID,
		Message:     "Item Will Be Deleted Shortly",
	})
}

type TransferItemRequest struct {
	ItemID string `json:"item_id"`
	Buyer  string `json:"buyer"`
}

func (h *ItemHandler) TransferItem(c echo.Context) error {
	var req TransferItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	operationID, err := h.lifecycle.TransferItem(c.Request().Context(), req.ItemID, req.Buyer)
	if err != nil {
		h.log.Error("Failed to transfer item", "item_id", req.ItemID, "buyer", req.Buyer, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OperationResponse{
		Status:      "success",
		OperationID: operationID,
		Message:     "Item Transfer Initiated",
	})
}
