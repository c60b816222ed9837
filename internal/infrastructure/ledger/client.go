// Package ledger wraps the external ledger service that confirms item
// ownership actions. Every mutating call comes back as one of three shapes:
// pending with an operation id, an explicit rejection, or something
// unexpected. The first two are the only ones callers can act on.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"auction-marketplace/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ledgerResponse struct {
	Status      string `json:"status"`
	OperationID string `json:"operation_id"`
	Message     string `json:"message"`
}

func (c *Client) CreateItem(ctx context.Context, itemID, seller string) (string, error) {
	payload := map[string]string{"item_id": itemID, "seller": seller}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/item", c.baseURL), payload)
}

func (c *Client) DeleteItem(ctx context.Context, itemID, seller string) (string, error) {
	payload := map[string]string{"seller": seller}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/item/%s", c.baseURL, itemID), payload)
}

func (c *Client) TransferItem(ctx context.Context, itemID, buyer string) (string, error) {
	payload := map[string]string{"item_id": itemID, "buyer": buyer}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/transfer", c.baseURL), payload)
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode ledger request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded ledgerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode ledger response: %w", err)
	}

	switch decoded.Status {
	case "pending":
		return decoded.OperationID, nil
	case "error":
		return "", &domain.LedgerRejection{Message: decoded.Message}
	default:
		return "", domain.ErrUnexpectedLedgerResponse
	}
}
