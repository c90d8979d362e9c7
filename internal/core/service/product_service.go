package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

// ProductCache abstracts the catalog response cache (Redis). Both lookups and
// stores are best-effort: a cache failure degrades to an upstream fetch.
type ProductCache interface {
	GetPage(ctx context.Context, key string) (*ports.ProductPage, bool)
	SetPage(ctx context.Context, key string, page *ports.ProductPage)
	GetCategories(ctx context.Context) ([]string, bool)
	SetCategories(ctx context.Context, categories []string)
}

// ProductService serves catalog reads through the upstream product source,
// applying the storefront's category and price filters to the fetched page.
type ProductService struct {
	source ports.ProductSource
	cache  ProductCache
	log    zerolog.Logger
}

func NewProductService(source ports.ProductSource, cache ProductCache, log zerolog.Logger) *ProductService {
	return &ProductService{source: source, cache: cache, log: log}
}

func (s *ProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	query := ports.ProductQuery{Limit: limit, Skip: input.Skip, Search: input.Search}
	page, err := s.fetchPage(ctx, query)
	if err != nil {
		return nil, err
	}

	// Category and price bounds are applied to the fetched page in-process;
	// the upstream catalog does not support them as query parameters.
	filtered := make([]domain.Product, 0, len(page.Products))
	for _, p := range page.Products {
		if input.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(input.Category)) {
			continue
		}
		if input.MinPrice > 0 && p.Price < input.MinPrice {
			continue
		}
		if input.MaxPrice > 0 && p.Price > input.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	return &ports.ProductPage{
		Products: filtered,
		Total:    len(filtered),
		Skip:     input.Skip,
		Limit:    limit,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.source.Get(ctx, id)
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if categories, ok := s.cache.GetCategories(ctx); ok {
			return categories, nil
		}
	}

	categories, err := s.source.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCategories(ctx, categories)
	}
	return categories, nil
}

func (s *ProductService) fetchPage(ctx context.Context, q ports.ProductQuery) (*ports.ProductPage, error) {
	key := pageCacheKey(q)
	if s.cache != nil {
		if page, ok := s.cache.GetPage(ctx, key); ok {
			return page, nil
		}
	}

	page, err := s.source.List(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetPage(ctx, key, page)
	}
	return page, nil
}

func pageCacheKey(q ports.ProductQuery) string {
	return fmt.Sprintf("limit=%d&skip=%d&q=%s", q.Limit, q.Skip, q.Search)
}
