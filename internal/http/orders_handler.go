package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderManager interface {
	CreateOrder(ctx context.Context, userID string, cartItemIDs []uuid.UUID, address domain.ShippingAddress, orderNote string) (*domain.Order, error)
	GetOrderWithItems(ctx context.Context, userID string, orderID uuid.UUID) (*domain.OrderWithItems, error)
	ListOrders(ctx context.Context, userID string, q repository.OrderQuery) ([]*domain.Order, int, error)
}

type OrdersHandler struct {
	orders  OrderManager
	timeout time.Duration
}

func NewOrdersHandler(orders OrderManager, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type CreateOrderRequestDTO struct {
	CartItemIDs     []uuid.UUID            `json:"cart_item_ids"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	OrderNote       string                 `json:"order_note"`
}

type OrderListResponseDTO struct {
	Orders     []*domain.Order `json:"orders"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
}

// POST /api/v1/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.CartItemIDs) == 0 {
		respondError(w, http.StatusBadRequest, "no_items_selected", "cart_item_ids is required")
		return
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_shipping_address", err.Error())
		return
	}

	order, err := h.orders.CreateOrder(ctx, userID, req.CartItemIDs, req.ShippingAddress, req.OrderNote)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	q := repository.OrderQuery{
		Sort: repository.OrderSort(r.URL.Query().Get("sort")),
		Page: parsePage(r),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.OrderStatus(v)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
			return
		}
		q.Status = &status
	}

	orders, total, err := h.orders.ListOrders(ctx, userID, q)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, OrderListResponseDTO{
		Orders:     orders,
		TotalCount: total,
		Page:       q.Page,
		PerPage:    repository.OrdersPerPage,
	})
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.orders.GetOrderWithItems(ctx, userID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
