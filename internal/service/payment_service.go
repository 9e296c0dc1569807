package service

import (
	"context"
	"fmt"
	"log"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/payments"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/google/uuid"
)

type PaymentService struct {
	orders  repository.OrderRepository
	carts   repository.CartRepository
	gateway payments.Confirmer
}

func NewPaymentService(orders repository.OrderRepository, carts repository.CartRepository, gateway payments.Confirmer) *PaymentService {
	return &PaymentService{
		orders:  orders,
		carts:   carts,
		gateway: gateway,
	}
}

// ApprovePayment finalizes a charge the customer authorized at the gateway.
// The stored order must still be pending and its total must equal the amount
// the gateway reported; both checks defend against client-side tampering and
// double submission (an already-confirmed order is rejected, not re-confirmed).
func (s *PaymentService) ApprovePayment(
	ctx context.Context,
	userID string,
	paymentKey string,
	orderID uuid.UUID,
	amount int64,
) (*payments.Payment, error) {
	order, err := s.orders.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	if order.TotalAmount != amount {
		log.Printf("payment amount mismatch: order=%v stored=%d reported=%d", orderID, order.TotalAmount, amount)
		return nil, ErrAmountMismatch
	}

	payment, err := s.gateway.Confirm(ctx, payments.ConfirmRequest{
		PaymentKey: paymentKey,
		OrderID:    orderID.String(),
		Amount:     amount,
	})
	if err != nil {
		// The gateway's own reason is the failure reason.
		return nil, err
	}

	if payment.Status != payments.StatusDone {
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotComplete, payment.Status)
	}

	if err := s.orders.UpdateStatus(ctx, userID, orderID, domain.OrderStatusPending, domain.OrderStatusConfirmed); err != nil {
		// The charge succeeded; the caller gets the payment plus a
		// distinguishable error so the mismatch can be reported.
		log.Printf("order %v paid but status update failed: %v", orderID, err)
		return payment, fmt.Errorf("%w: %v", ErrConfirmedNotRecorded, err)
	}

	// Best effort; a full cart after checkout is an annoyance, not a fault.
	if err := s.carts.DeleteAll(ctx, userID); err != nil {
		log.Printf("failed to clear cart for user %s after payment: %v", userID, err)
	}

	return payment, nil
}
