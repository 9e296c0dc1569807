package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/payments"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(amount int64) *domain.Order {
	return &domain.Order{
		ID:          uuid.New(),
		UserID:      "user-1",
		TotalAmount: amount,
		Status:      domain.OrderStatusPending,
	}
}

func donePayment(orderID uuid.UUID, amount int64) *payments.Payment {
	return &payments.Payment{
		PaymentKey:  "pay-key-123",
		OrderID:     orderID.String(),
		Status:      payments.StatusDone,
		TotalAmount: amount,
		Method:      "CARD",
	}
}

func TestApprovePayment_Success(t *testing.T) {
	order := pendingOrder(43000)
	orderRepo := &mockOrderRepo{order: order}
	cartRepo := newMockCartRepo()
	cartRepo.items[uuid.New()] = &domain.CartItem{UserID: "user-1"}
	gateway := &mockGateway{payment: donePayment(order.ID, 43000)}

	sut := NewPaymentService(orderRepo, cartRepo, gateway)
	payment, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 43000)
	require.NoError(t, err)
	require.NotNil(t, payment)

	assert.Equal(t, payments.StatusDone, payment.Status)
	require.NotNil(t, orderRepo.updatedTo)
	assert.Equal(t, domain.OrderStatusPending, *orderRepo.updatedFrom)
	assert.Equal(t, domain.OrderStatusConfirmed, *orderRepo.updatedTo)
	assert.True(t, cartRepo.cleared)

	require.NotNil(t, gateway.lastReq)
	assert.Equal(t, "pay-key-123", gateway.lastReq.PaymentKey)
	assert.Equal(t, order.ID.String(), gateway.lastReq.OrderID)
	assert.Equal(t, int64(43000), gateway.lastReq.Amount)
}

func TestApprovePayment_AmountMismatch(t *testing.T) {
	order := pendingOrder(43000)
	orderRepo := &mockOrderRepo{order: order}
	gateway := &mockGateway{payment: donePayment(order.ID, 43000)}

	sut := NewPaymentService(orderRepo, newMockCartRepo(), gateway)
	_, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 42000)

	require.ErrorIs(t, err, ErrAmountMismatch)
	assert.Equal(t, 0, gateway.numCalls, "gateway must not be called on mismatch")
	assert.Nil(t, orderRepo.updatedTo)
}

func TestApprovePayment_AlreadyConfirmed(t *testing.T) {
	order := pendingOrder(43000)
	order.Status = domain.OrderStatusConfirmed
	orderRepo := &mockOrderRepo{order: order}
	gateway := &mockGateway{payment: donePayment(order.ID, 43000)}

	sut := NewPaymentService(orderRepo, newMockCartRepo(), gateway)
	_, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 43000)

	require.ErrorIs(t, err, ErrOrderNotPending)
	assert.Equal(t, 0, gateway.numCalls)
}

func TestApprovePayment_OrderNotFound(t *testing.T) {
	orderRepo := &mockOrderRepo{}
	sut := NewPaymentService(orderRepo, newMockCartRepo(), &mockGateway{})
	_, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", uuid.New(), 43000)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestApprovePayment_GatewayErrorSurfacedVerbatim(t *testing.T) {
	order := pendingOrder(43000)
	orderRepo := &mockOrderRepo{order: order}
	gwErr := &payments.GatewayError{Code: "INVALID_REJECT_CARD", Message: "카드가 거절되었습니다", HTTPStatus: 400}
	gateway := &mockGateway{err: gwErr}

	sut := NewPaymentService(orderRepo, newMockCartRepo(), gateway)
	_, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 43000)

	var got *payments.GatewayError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "INVALID_REJECT_CARD", got.Code)
	assert.Equal(t, "카드가 거절되었습니다", got.Error())
	assert.Nil(t, orderRepo.updatedTo, "order must stay pending on gateway failure")
}

func TestApprovePayment_StatusNotDone(t *testing.T) {
	order := pendingOrder(43000)
	orderRepo := &mockOrderRepo{order: order}
	payment := donePayment(order.ID, 43000)
	payment.Status = payments.StatusWaitingForDeposit
	gateway := &mockGateway{payment: payment}

	cartRepo := newMockCartRepo()
	sut := NewPaymentService(orderRepo, cartRepo, gateway)
	_, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 43000)

	require.ErrorIs(t, err, ErrPaymentNotComplete)
	assert.Nil(t, orderRepo.updatedTo)
	assert.False(t, cartRepo.cleared)
}

func TestApprovePayment_UpdateFailureReturnsPayment(t *testing.T) {
	order := pendingOrder(43000)
	orderRepo := &mockOrderRepo{order: order, updateErr: errors.New("connection reset")}
	gateway := &mockGateway{payment: donePayment(order.ID, 43000)}

	sut := NewPaymentService(orderRepo, newMockCartRepo(), gateway)
	payment, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 43000)

	require.ErrorIs(t, err, ErrConfirmedNotRecorded)
	assert.NotNil(t, payment, "caller needs the payment even when recording failed")
}

func TestApprovePayment_CartClearFailureIsSwallowed(t *testing.T) {
	order := pendingOrder(43000)
	orderRepo := &mockOrderRepo{order: order}
	cartRepo := newMockCartRepo()
	cartRepo.clearErr = errors.New("cart table unavailable")
	gateway := &mockGateway{payment: donePayment(order.ID, 43000)}

	sut := NewPaymentService(orderRepo, cartRepo, gateway)
	payment, err := sut.ApprovePayment(context.Background(), "user-1", "pay-key-123", order.ID, 43000)

	require.NoError(t, err, "cart clear failure must not fail the approval")
	assert.NotNil(t, payment)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
}
