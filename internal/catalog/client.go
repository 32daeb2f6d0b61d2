// Package catalog fetches immutable product snapshots from the catalog
// collaborator service.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cocoguard/cart-session-service/internal/model"
)

const requestTimeout = 10 * time.Second

// ErrNotFound is returned when the catalog has no such product.
var ErrNotFound = errors.New("product not found")

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Snapshot fetches the product snapshot consumed by the cart at add-time.
func (c *Client) Snapshot(ctx context.Context, productID string) (model.ProductSnapshot, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.ProductSnapshot{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ProductSnapshot{}, fmt.Errorf("fetch product: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.ProductSnapshot{}, ErrNotFound
	default:
		return model.ProductSnapshot{}, fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}

	var snap model.ProductSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return model.ProductSnapshot{}, fmt.Errorf("decode product: %w", err)
	}
	if snap.ID == "" {
		snap.ID = productID
	}
	return snap, nil
}
