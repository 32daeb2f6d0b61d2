package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocoguard/cart-session-service/internal/audit"
	"github.com/cocoguard/cart-session-service/internal/cart"
	"github.com/cocoguard/cart-session-service/internal/catalog"
	"github.com/cocoguard/cart-session-service/internal/checkout"
	"github.com/cocoguard/cart-session-service/internal/config"
	"github.com/cocoguard/cart-session-service/internal/metrics"
	"github.com/cocoguard/cart-session-service/internal/model"
	"github.com/cocoguard/cart-session-service/internal/obs"
	"github.com/cocoguard/cart-session-service/internal/pricefill"
	"github.com/cocoguard/cart-session-service/internal/prices"
)

// SnapshotSource resolves catalog product snapshots at add-time.
type SnapshotSource interface {
	Snapshot(ctx context.Context, productID string) (model.ProductSnapshot, error)
}

// OrderGateway creates and captures checkout orders from a cart snapshot.
type OrderGateway interface {
	Enabled() bool
	CreateOrder(ctx context.Context, scope string, items []model.CartItem) (string, error)
	CaptureOrder(ctx context.Context, orderID string) error
}

type App struct {
	Cfg      config.Config
	Carts    *cart.Registry
	Prices   *prices.Store
	Catalog  SnapshotSource
	Checkout OrderGateway
	Rec      cart.Recorder
	Metrics  *metrics.HTTPMetrics
	started  time.Time
}

// NewApp wires the handler dependencies. rec may be nil.
func NewApp(cfg config.Config, carts *cart.Registry, ps *prices.Store, cat SnapshotSource, co OrderGateway, rec cart.Recorder, m *metrics.HTTPMetrics) *App {
	return &App{
		Cfg:      cfg,
		Carts:    carts,
		Prices:   ps,
		Catalog:  cat,
		Checkout: co,
		Rec:      rec,
		Metrics:  m,
		started:  time.Now(),
	}
}

type cartView struct {
	Scope string           `json:"scope"`
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total decimal.Decimal  `json:"total"`
}

func viewOf(s *cart.Session) cartView {
	items := s.Items()
	return cartView{
		Scope: s.Scope(),
		Items: items,
		Count: cart.Count(items),
		Total: cart.Total(items),
	}
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime_sec": time.Since(a.started).Seconds(),
	})
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	sess := a.Carts.Session(r.PathValue("scope"))
	WriteJSON(w, http.StatusOK, viewOf(sess))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type addItemResponse struct {
	Outcome cart.AddOutcome `json:"outcome"`
	cartView
}

func (a *App) addItemHandler(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")
	var req addItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product_id is required")
		return
	}
	if req.Quantity < 1 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "quantity must be >= 1")
		return
	}

	snap, err := a.Catalog.Snapshot(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "unknown_product", req.ProductID)
		return
	}
	if err != nil {
		obs.Logger.Warnw("catalog_fetch_failed", "product_id", req.ProductID, "error", err)
		WriteJSONError(w, http.StatusBadGateway, "catalog_unavailable", "")
		return
	}

	sess := a.Carts.Session(scope)
	outcome, err := sess.Add(snap, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrStockExceeded):
		WriteJSONError(w, http.StatusConflict, "stock_exceeded", "")
		return
	case errors.Is(err, cart.ErrInvalidQuantity):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	case err != nil:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	WriteJSON(w, http.StatusOK, addItemResponse{Outcome: outcome, cartView: viewOf(sess)})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (a *App) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	sess := a.Carts.Session(r.PathValue("scope"))
	var req updateItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	// No ceiling clamp here: the session applies the value as given.
	changed := sess.UpdateQuantity(r.PathValue("id"), req.Quantity)
	WriteJSON(w, http.StatusOK, map[string]any{"changed": changed, "count": sess.Count(), "total": sess.Total()})
}

func (a *App) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	sess := a.Carts.Session(r.PathValue("scope"))
	removed := sess.Remove(r.PathValue("id"))
	WriteJSON(w, http.StatusOK, map[string]any{"removed": removed, "count": sess.Count(), "total": sess.Total()})
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	a.Carts.Session(r.PathValue("scope")).Clear()
	w.WriteHeader(http.StatusNoContent)
}

type checkoutResponse struct {
	Scope   string `json:"scope"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// checkoutHandler snapshots the cart, runs the provider's create+capture
// phases, and clears the cart only after capture confirms success. Any
// failure leaves the cart intact.
func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")
	sess := a.Carts.Session(scope)
	items := sess.Items()
	if len(items) == 0 {
		WriteJSONError(w, http.StatusConflict, "cart_empty", "")
		return
	}
	if a.Checkout == nil || !a.Checkout.Enabled() {
		WriteJSONError(w, http.StatusServiceUnavailable, "checkout_disabled", "")
		return
	}

	orderID, err := a.Checkout.CreateOrder(r.Context(), scope, items)
	if err != nil {
		obs.Logger.Warnw("checkout_create_failed", "scope", scope, "error", err)
		WriteJSONError(w, http.StatusBadGateway, "checkout_unavailable", "")
		return
	}
	if err := a.Checkout.CaptureOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, checkout.ErrCaptureDeclined) {
			WriteJSONError(w, http.StatusConflict, "capture_declined", "")
			return
		}
		obs.Logger.Warnw("checkout_capture_failed", "scope", scope, "order_id", orderID, "error", err)
		WriteJSONError(w, http.StatusBadGateway, "checkout_unavailable", "")
		return
	}

	sess.Clear()
	if a.Rec != nil {
		a.Rec.Record(scope, audit.EventCheckoutCompleted, orderID, cart.Count(items))
	}
	WriteJSON(w, http.StatusOK, checkoutResponse{Scope: scope, OrderID: orderID, Status: "COMPLETED"})
}

type priceSampleRequest struct {
	Date  string   `json:"date"`
	Price *float64 `json:"price"`
}

func (a *App) postPriceHandler(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")
	var req priceSampleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if _, err := pricefill.ParseDay(req.Date); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "date must be a calendar date")
		return
	}
	a.Prices.Add(scope, model.PricePoint{Date: req.Date, Price: req.Price})
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "recorded", "scope": scope, "date": req.Date})
}

type priceSeriesResponse struct {
	Scope  string             `json:"scope"`
	Points []model.PricePoint `json:"points"`
}

func (a *App) priceSeriesHandler(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")
	today := time.Now().UTC()
	if v := r.URL.Query().Get("today"); v != "" {
		t, err := pricefill.ParseDay(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "today must be a calendar date")
			return
		}
		today = t
	}
	points := pricefill.Fill(a.Prices.List(scope), today)
	WriteJSON(w, http.StatusOK, priceSeriesResponse{Scope: scope, Points: points})
}
