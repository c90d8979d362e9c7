package ports

import (
	"context"

	"github.com/astrape/storefront/internal/core/domain"
)

// ProductQuery carries the paging and search parameters forwarded to the
// upstream catalog.
type ProductQuery struct {
	Limit  int
	Skip   int
	Search string
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []domain.Product
	Total    int
	Skip     int
	Limit    int
}

// ProductSource is the read-only third-party product catalog.
type ProductSource interface {
	List(ctx context.Context, q ProductQuery) (*ProductPage, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// ListProductsInput carries all filters for the product list endpoint.
// Category, MinPrice and MaxPrice are applied to the fetched page in-process;
// the remaining fields are forwarded upstream.
type ListProductsInput struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Search   string
	Limit    int
	Skip     int
}

// ProductService defines catalog read use cases.
type ProductService interface {
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
