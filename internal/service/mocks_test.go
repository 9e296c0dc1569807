package service

import (
	"context"
	"sync"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/payments"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/google/uuid"
)

// mockProductRepo implements repository.ProductRepository for testing
type mockProductRepo struct {
	products map[uuid.UUID]*domain.Product
	listed   []*domain.Product
	err      error
}

func (m *mockProductRepo) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) ListProducts(context.Context, repository.ProductFilter) ([]*domain.Product, error) {
	return m.listed, m.err
}

func (m *mockProductRepo) ListPopularProducts(context.Context, int) ([]*domain.Product, error) {
	return m.listed, m.err
}

// mockCartRepo implements repository.CartRepository for testing
type mockCartRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*domain.CartItem
	details  []*domain.CartItemDetail
	err      error
	clearErr error
	cleared  bool
	deleted  []uuid.UUID
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{items: map[uuid.UUID]*domain.CartItem{}}
}

func (m *mockCartRepo) GetItem(_ context.Context, userID string, itemID uuid.UUID) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return nil, repository.ErrCartItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockCartRepo) GetItemByProduct(_ context.Context, userID string, productID uuid.UUID) (*domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (m *mockCartRepo) ListItems(context.Context, string) ([]*domain.CartItemDetail, error) {
	return m.details, m.err
}

func (m *mockCartRepo) ListItemsByIDs(_ context.Context, _ string, ids []uuid.UUID) ([]*domain.CartItemDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*domain.CartItemDetail
	for _, d := range m.details {
		if wanted[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockCartRepo) InsertItem(_ context.Context, item *domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, userID string, itemID uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return repository.ErrCartItemNotFound
	}
	item.Quantity = quantity
	return nil
}

func (m *mockCartRepo) DeleteItem(_ context.Context, _ string, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.items, itemID)
	m.deleted = append(m.deleted, itemID)
	return nil
}

func (m *mockCartRepo) DeleteItems(_ context.Context, _ string, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, id := range ids {
		delete(m.items, id)
	}
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockCartRepo) DeleteAll(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.items = map[uuid.UUID]*domain.CartItem{}
	m.cleared = true
	return nil
}

func (m *mockCartRepo) quantityOf(itemID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[itemID]; ok {
		return item.Quantity
	}
	return 0
}

// mockOrderRepo implements repository.OrderRepository for testing
type mockOrderRepo struct {
	order        *domain.Order
	orders       []*domain.Order
	total        int
	getErr       error
	createErr    error
	updateErr    error
	listErr      error
	createdOrder *domain.Order
	createdItems []domain.OrderItem
	updatedFrom  *domain.OrderStatus
	updatedTo    *domain.OrderStatus
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdOrder = order
	m.createdItems = items
	return nil
}

func (m *mockOrderRepo) GetOrder(_ context.Context, userID string, orderID uuid.UUID) (*domain.Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.order == nil || m.order.ID != orderID || m.order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	copied := *m.order
	return &copied, nil
}

func (m *mockOrderRepo) GetOrderWithItems(ctx context.Context, userID string, orderID uuid.UUID) (*domain.OrderWithItems, error) {
	order, err := m.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return &domain.OrderWithItems{Order: *order, Items: m.createdItems}, nil
}

func (m *mockOrderRepo) ListOrders(context.Context, string, repository.OrderQuery) ([]*domain.Order, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.orders, m.total, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, _ string, _ uuid.UUID, from, to domain.OrderStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedFrom = &from
	m.updatedTo = &to
	if m.order != nil {
		m.order.Status = to
	}
	return nil
}

// mockGateway implements payments.Confirmer for testing
type mockGateway struct {
	payment  *payments.Payment
	err      error
	lastReq  *payments.ConfirmRequest
	numCalls int
}

func (m *mockGateway) Confirm(_ context.Context, req payments.ConfirmRequest) (*payments.Payment, error) {
	m.numCalls++
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.payment, nil
}
