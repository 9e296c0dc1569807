package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/google/uuid"
)

const OrdersPerPage = 10

type OrderSort string

const (
	OrderSortLatest     OrderSort = "latest"
	OrderSortOldest     OrderSort = "oldest"
	OrderSortAmountHigh OrderSort = "amount-high"
	OrderSortAmountLow  OrderSort = "amount-low"
)

type OrderQuery struct {
	Status *domain.OrderStatus
	Sort   OrderSort
	Page   int
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error)
	GetOrderWithItems(ctx context.Context, userID string, orderID uuid.UUID) (*domain.OrderWithItems, error)
	ListOrders(ctx context.Context, userID string, q OrderQuery) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, userID string, orderID uuid.UUID, from, to domain.OrderStatus) error
}

// CreateOrder inserts the order header and its line snapshots in a single
// transaction, so a failed line insert never leaves an orphaned header.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `INSERT INTO orders (id, user_id, total_amount, status, shipping_address, order_note, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), NOW())`

	if _, err := tx.ExecContext(ctx, headerQuery,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.Status,
		addressJSON,
		order.OrderNote,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id, total_amount, status, shipping_address, COALESCE(order_note, ''), created_at, updated_at`

func (r *Repository) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID, userID))
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var addressJSON []byte
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&addressJSON,
		&order.OrderNote,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return order, nil
}

func (r *Repository) GetOrderWithItems(ctx context.Context, userID string, orderID uuid.UUID) (*domain.OrderWithItems, error) {
	order, err := r.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	itemsQuery := `SELECT id, order_id, product_id, product_name, quantity, price, created_at
	               FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &domain.OrderWithItems{Order: *order, Items: items}, nil
}

// ListOrders returns one page of the caller's orders plus the unpaged total,
// so the boundary can compute page counts.
func (r *Repository) ListOrders(ctx context.Context, userID string, q OrderQuery) ([]*domain.Order, int, error) {
	where := ` FROM orders WHERE user_id = $1`
	args := []interface{}{userID}

	if q.Status != nil {
		args = append(args, *q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + where
	switch q.Sort {
	case OrderSortOldest:
		query += " ORDER BY created_at ASC"
	case OrderSortAmountHigh:
		query += " ORDER BY total_amount DESC, created_at DESC"
	case OrderSortAmountLow:
		query += " ORDER BY total_amount ASC, created_at DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	args = append(args, OrdersPerPage, (page-1)*OrdersPerPage)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		var addressJSON []byte
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.Status,
			&addressJSON,
			&order.OrderNote,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
			return nil, 0, fmt.Errorf("unmarshal shipping address: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order from one status to another. The transition must
// be legal per domain.CanTransitionTo, and the UPDATE is conditioned on the
// current status so a concurrent transition loses cleanly.
func (r *Repository) UpdateStatus(ctx context.Context, userID string, orderID uuid.UUID, from, to domain.OrderStatus) error {
	if !domain.CanTransitionTo(from, to) {
		return fmt.Errorf("illegal order status transition %s -> %s", from, to)
	}

	query := `UPDATE orders SET status = $1, updated_at = NOW()
	          WHERE id = $2 AND user_id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, to, orderID, userID, from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRowAffected(res, ErrStatusConflict)
}
