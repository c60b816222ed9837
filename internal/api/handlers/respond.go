package handlers

import (
	"errors"
	"net/http"

	"auction-marketplace/internal/domain"

	"github.com/labstack/echo/v4"
)

// errorStatus maps the error taxonomy onto HTTP classes: absent records are
// 404, validation and state conflicts (including an explicit ledger
// rejection) are 400, everything else is an internal failure.
func errorStatus(err error) int {
	var rejection *domain.LedgerRejection

	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrOperationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidIncrement),
		errors.Is(err, domain.ErrItemNotBiddable),
		errors.Is(err, domain.ErrItemNotTransferable),
		errors.Is(err, domain.ErrCurrentBidMissing),
		errors.As(err, &rejection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "internal server error"
	}

	return c.JSON(status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
