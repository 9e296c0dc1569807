package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CartRepository interface {
	GetItem(ctx context.Context, userID string, itemID uuid.UUID) (*domain.CartItem, error)
	GetItemByProduct(ctx context.Context, userID string, productID uuid.UUID) (*domain.CartItem, error)
	ListItems(ctx context.Context, userID string) ([]*domain.CartItemDetail, error)
	ListItemsByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*domain.CartItemDetail, error)
	InsertItem(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, userID string, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, userID string, ids []uuid.UUID) error
	DeleteAll(ctx context.Context, userID string) error
}

const cartItemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

func (r *Repository) GetItem(ctx context.Context, userID string, itemID uuid.UUID) (*domain.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = $1 AND user_id = $2`
	return r.scanCartItem(r.db.QueryRowContext(ctx, query, itemID, userID))
}

func (r *Repository) GetItemByProduct(ctx context.Context, userID string, productID uuid.UUID) (*domain.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE user_id = $1 AND product_id = $2`
	return r.scanCartItem(r.db.QueryRowContext(ctx, query, userID, productID))
}

func (r *Repository) scanCartItem(row *sql.Row) (*domain.CartItem, error) {
	item := &domain.CartItem{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item: %w", err)
	}
	return item, nil
}

const cartDetailQuery = `
	SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
	       p.id, p.name, COALESCE(p.description, ''), p.price, COALESCE(p.category, ''),
	       p.stock_quantity, p.is_active, p.created_at, p.updated_at
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.user_id = $1`

func (r *Repository) ListItems(ctx context.Context, userID string) ([]*domain.CartItemDetail, error) {
	query := cartDetailQuery + ` ORDER BY ci.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()
	return scanCartDetails(rows)
}

// ListItemsByIDs loads the named lines with their live product rows.
// Lines not owned by userID are silently absent from the result.
func (r *Repository) ListItemsByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*domain.CartItemDetail, error) {
	query := cartDetailQuery + ` AND ci.id = ANY($2) ORDER BY ci.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query cart items by ids: %w", err)
	}
	defer rows.Close()
	return scanCartDetails(rows)
}

func scanCartDetails(rows *sql.Rows) ([]*domain.CartItemDetail, error) {
	var details []*domain.CartItemDetail
	for rows.Next() {
		d := &domain.CartItemDetail{}
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.ProductID,
			&d.Quantity,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.Product.ID,
			&d.Product.Name,
			&d.Product.Description,
			&d.Product.Price,
			&d.Product.Category,
			&d.Product.StockQuantity,
			&d.Product.IsActive,
			&d.Product.CreatedAt,
			&d.Product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return details, nil
}

func (r *Repository) InsertItem(ctx context.Context, item *domain.CartItem) error {
	query := `INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.ProductID, item.Quantity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCartItem
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r *Repository) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}
	return requireRowAffected(res, ErrCartItemNotFound)
}

func (r *Repository) DeleteItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return requireRowAffected(res, ErrCartItemNotFound)
}

func (r *Repository) DeleteItems(ctx context.Context, userID string, ids []uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`

	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids)); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func requireRowAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
