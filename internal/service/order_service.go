package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/google/uuid"
)

type OrderService struct {
	orders repository.OrderRepository
	carts  repository.CartRepository
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository) *OrderService {
	return &OrderService{
		orders: orders,
		carts:  carts,
	}
}

// CreateOrder turns the named cart lines into a pending order. Products are
// re-validated at this point, name and price are snapshotted per line, and
// the header plus lines are written in one transaction.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	userID string,
	cartItemIDs []uuid.UUID,
	address domain.ShippingAddress,
	orderNote string,
) (*domain.Order, error) {
	if len(cartItemIDs) == 0 {
		return nil, ErrNoItemsSelected
	}
	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shipping address: %w", err)
	}
	if len([]rune(orderNote)) > domain.OrderNoteMaxLength {
		return nil, ErrOrderNoteTooLong
	}

	lines, err := s.carts.ListItemsByIDs(ctx, userID, cartItemIDs)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrCartItemsNotFound
	}

	var productTotal int64
	for _, line := range lines {
		if !line.Product.IsActive {
			return nil, &ProductUnavailableError{ProductName: line.Product.Name}
		}
		if line.Product.StockQuantity < line.Quantity {
			return nil, &InsufficientStockError{
				ProductName: line.Product.Name,
				Stock:       line.Product.StockQuantity,
			}
		}
		productTotal += line.Subtotal()
	}

	totalAmount := productTotal + domain.CalculateShippingFee(productTotal)

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TotalAmount:     totalAmount,
		Status:          domain.OrderStatusPending,
		ShippingAddress: address,
		OrderNote:       orderNote,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			CreatedAt:   now,
		})
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, userID, orderID)
}

func (s *OrderService) GetOrderWithItems(ctx context.Context, userID string, orderID uuid.UUID) (*domain.OrderWithItems, error) {
	return s.orders.GetOrderWithItems(ctx, userID, orderID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string, q repository.OrderQuery) ([]*domain.Order, int, error) {
	return s.orders.ListOrders(ctx, userID, q)
}
