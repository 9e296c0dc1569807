package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, product) line. The UNIQUE(user_id, product_id)
// constraint makes repeat adds an increment, never a second row.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItemDetail joins a cart line with the live product row. This is
// display data; order creation re-reads and snapshots at its own time.
type CartItemDetail struct {
	CartItem
	Product Product `json:"product"`
}

// Subtotal is live price times quantity.
func (d CartItemDetail) Subtotal() int64 {
	return d.Product.Price * int64(d.Quantity)
}
