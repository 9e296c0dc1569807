package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProductLister interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	PopularProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type ProductHandler struct {
	products ProductLister
	timeout  time.Duration
}

func NewProductHandler(products ProductLister, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		timeout:  timeout,
	}
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter := repository.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Sort:     repository.ProductSort(r.URL.Query().Get("sort")),
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		minPrice, err := strconv.ParseInt(v, 10, 64)
		if err != nil || minPrice < 0 {
			respondError(w, http.StatusBadRequest, "invalid_min_price", "min_price must be a non-negative integer")
			return
		}
		filter.MinPrice = minPrice
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		maxPrice, err := strconv.ParseInt(v, 10, 64)
		if err != nil || maxPrice < 0 {
			respondError(w, http.StatusBadRequest, "invalid_max_price", "max_price must be a non-negative integer")
			return
		}
		filter.MaxPrice = maxPrice
	}
	filter.Page = parsePage(r)

	products, err := h.products.ListProducts(ctx, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/popular
func (h *ProductHandler) PopularProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.PopularProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := uuid.Parse(chi.URLParam(r, "product_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a UUID")
		return
	}

	product, err := h.products.GetProduct(ctx, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func parsePage(r *http.Request) int {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
