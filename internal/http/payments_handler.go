package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dkwon/go_storefront/internal/payments"
	"github.com/dkwon/go_storefront/internal/service"
	"github.com/google/uuid"
)

type PaymentApprover interface {
	ApprovePayment(ctx context.Context, userID, paymentKey string, orderID uuid.UUID, amount int64) (*payments.Payment, error)
}

type PaymentsHandler struct {
	payments PaymentApprover
	timeout  time.Duration
}

func NewPaymentsHandler(approver PaymentApprover, timeout time.Duration) *PaymentsHandler {
	return &PaymentsHandler{
		payments: approver,
		timeout:  timeout,
	}
}

type ApprovePaymentRequestDTO struct {
	PaymentKey string    `json:"payment_key"`
	OrderID    uuid.UUID `json:"order_id"`
	Amount     int64     `json:"amount"`
}

type ApprovePaymentResponseDTO struct {
	Payment *payments.Payment `json:"payment"`
	Warning string            `json:"warning,omitempty"`
}

// POST /api/v1/payments/approve
func (h *PaymentsHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ApprovePaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.PaymentKey == "" {
		respondError(w, http.StatusBadRequest, "missing_payment_key", "payment_key is required")
		return
	}
	if req.OrderID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id is required")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}

	payment, err := h.payments.ApprovePayment(ctx, userID, req.PaymentKey, req.OrderID, req.Amount)
	if err != nil {
		h.handleApproveError(w, r, payment, err)
		return
	}

	respondJSON(w, http.StatusOK, ApprovePaymentResponseDTO{Payment: payment})
}

func (h *PaymentsHandler) handleApproveError(w http.ResponseWriter, r *http.Request, payment *payments.Payment, err error) {
	var gwErr *payments.GatewayError

	switch {
	case errors.Is(err, service.ErrConfirmedNotRecorded):
		// The card was charged; the client must not retry.
		log.Printf("request %s: %v", getRequestID(r.Context()), err)
		respondJSON(w, http.StatusOK, ApprovePaymentResponseDTO{
			Payment: payment,
			Warning: "payment completed but the order could not be updated, contact support",
		})
	case errors.Is(err, service.ErrOrderNotPending):
		respondError(w, http.StatusConflict, "order_not_pending", err.Error())
	case errors.Is(err, service.ErrAmountMismatch):
		respondError(w, http.StatusConflict, "amount_mismatch", err.Error())
	case errors.Is(err, service.ErrPaymentNotComplete):
		respondError(w, http.StatusBadGateway, "payment_not_complete", err.Error())
	case errors.As(err, &gwErr):
		// Surface the gateway's reason verbatim.
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: gwErr.Error(),
			Code:  gwErr.Code,
		})
	default:
		handleServiceError(w, err)
	}
}
