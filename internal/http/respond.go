package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/dkwon/go_storefront/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts service and repository errors to HTTP statuses.
// Anything unmapped is a 500 with a generic message; the detail stays in logs.
func handleServiceError(w http.ResponseWriter, err error) {
	var unavailable *service.ProductUnavailableError
	var stock *service.InsufficientStockError

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrCartItemNotFound):
		respondError(w, http.StatusNotFound, "cart_item_not_found", "cart item not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, repository.ErrDuplicateCartItem):
		respondError(w, http.StatusConflict, "duplicate_cart_item", "product was added concurrently, refresh the cart")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, service.ErrNoItemsSelected):
		respondError(w, http.StatusBadRequest, "no_items_selected", err.Error())
	case errors.Is(err, service.ErrCartItemsNotFound):
		respondError(w, http.StatusNotFound, "cart_items_not_found", err.Error())
	case errors.Is(err, service.ErrOrderNoteTooLong):
		respondError(w, http.StatusBadRequest, "order_note_too_long", err.Error())
	case errors.As(err, &unavailable):
		respondError(w, http.StatusConflict, "product_unavailable", unavailable.Error())
	case errors.As(err, &stock):
		respondError(w, http.StatusConflict, "insufficient_stock", stock.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
