package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/google/uuid"
)

type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
	}
}

// AddItem puts quantity of a product into the caller's cart. A product
// already in the cart gets its line incremented instead of a second row.
// The combined quantity may not exceed the product's current stock.
//
// The read-then-write on the existing line is not atomic against a
// concurrent add of the same product; the unique (user, product) constraint
// keeps rows consistent but the losing call surfaces a duplicate error.
func (s *CartService) AddItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, &ProductUnavailableError{}
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if !product.IsActive {
		return nil, &ProductUnavailableError{ProductName: product.Name}
	}

	existing, err := s.repo.GetItemByProduct(ctx, userID, productID)
	if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, fmt.Errorf("check existing cart item: %w", err)
	}

	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > product.StockQuantity {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Stock:       product.StockQuantity,
				InCart:      existing.Quantity,
			}
		}

		if err := s.repo.UpdateQuantity(ctx, userID, existing.ID, newQuantity); err != nil {
			return nil, fmt.Errorf("increment cart item: %w", err)
		}
		existing.Quantity = newQuantity
		return existing, nil
	}

	if quantity > product.StockQuantity {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Stock:       product.StockQuantity,
		}
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}
	return item, nil
}

// ListItems returns the caller's lines joined with live product data.
func (s *CartService) ListItems(ctx context.Context, userID string) ([]*domain.CartItemDetail, error) {
	return s.repo.ListItems(ctx, userID)
}

// UpdateQuantity sets a line to an absolute quantity. A rejected update
// leaves the stored quantity unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	item, err := s.repo.GetItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	product, err := s.products.GetProduct(ctx, item.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return &ProductUnavailableError{}
	}
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if !product.IsActive {
		return &ProductUnavailableError{ProductName: product.Name}
	}
	if quantity > product.StockQuantity {
		return &InsufficientStockError{
			ProductName: product.Name,
			Stock:       product.StockQuantity,
		}
	}

	return s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	return s.repo.DeleteItem(ctx, userID, itemID)
}

func (s *CartService) RemoveItems(ctx context.Context, userID string, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return ErrNoItemsSelected
	}
	return s.repo.DeleteItems(ctx, userID, itemIDs)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.repo.DeleteAll(ctx, userID)
}
