package handlers

import (
	"context"
	"net/http"

	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

type BidPlacer interface {
	PlaceBid(ctx context.Context, itemID, bidder string, increment float64) (float64, error)
}

type BidHandler struct {
	bids BidPlacer
	log  logger.Logger
}

func NewBidHandler(bids BidPlacer, log logger.Logger) *BidHandler {
	return &BidHandler{bids: bids, log: log}
}

type PlaceBidRequest struct {
	ItemID         string  `json:"item_id"`
	Bidder         string  `json:"bidder"`
	Incrementation float64 `json:"incrementation"`
}

type PlaceBidResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	NewPrice float64 `json:"new_price"`
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	newPrice, err := h.bids.PlaceBid(c.Request().Context(), req.ItemID, req.Bidder, req.Incrementation)
	if err != nil {
		h.log.Error("Failed to place bid", "item_id", req.ItemID, "bidder", req.Bidder, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, PlaceBidResponse{
		Status:   "success",
		Message:  "Bid placed successfully",
		NewPrice: newPrice,
	})
}
