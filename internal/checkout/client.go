// Package checkout talks to the payment collaborator that turns a cart
// snapshot into a captured order.
//
// The flow mirrors the provider's two phases: create an order from the item
// list, then capture it. The cart itself is only cleared by the caller after
// capture confirms success.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cocoguard/cart-session-service/internal/cart"
	"github.com/cocoguard/cart-session-service/internal/model"
)

const requestTimeout = 15 * time.Second

// ErrCaptureDeclined is returned when the provider refuses to capture a
// created order.
var ErrCaptureDeclined = errors.New("capture declined")

// Client talks to the checkout HTTP API. A client with an empty base URL is
// disabled.
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

// Enabled reports whether a checkout endpoint is configured.
func (c *Client) Enabled() bool { return c.baseURL != "" }

// OrderItem is the (product id, quantity) pair the provider consumes.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createRequest struct {
	Scope string      `json:"scope"`
	Items []OrderItem `json:"items"`
	Total string      `json:"total"`
}

type createResponse struct {
	OrderID string `json:"order_id"`
}

type captureResponse struct {
	Status string `json:"status"`
}

// CreateOrder submits the cart snapshot and returns the provider's order id.
func (c *Client) CreateOrder(ctx context.Context, scope string, items []model.CartItem) (string, error) {
	order := make([]OrderItem, 0, len(items))
	for _, it := range items {
		order = append(order, OrderItem{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	body := createRequest{Scope: scope, Items: order, Total: cart.Total(items).String()}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("checkout: unexpected status %d on create", resp.StatusCode)
	}

	var cr createResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode order: %w", err)
	}
	if cr.OrderID == "" {
		return "", errors.New("checkout: empty order id")
	}
	return cr.OrderID, nil
}

// CaptureOrder finalizes a created order. A provider status other than
// COMPLETED is reported as ErrCaptureDeclined.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) error {
	url := fmt.Sprintf("%s/orders/%s/capture", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("capture order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("checkout: unexpected status %d on capture", resp.StatusCode)
	}

	var cr captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return fmt.Errorf("decode capture: %w", err)
	}
	if cr.Status != "COMPLETED" {
		return fmt.Errorf("%w: status %s", ErrCaptureDeclined, cr.Status)
	}
	return nil
}
