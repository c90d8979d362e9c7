package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

type stubProductService struct {
	listFn       func(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error)
	getFn        func(ctx context.Context, id int) (*domain.Product, error)
	categoriesFn func(ctx context.Context) ([]string, error)
}

func (s *stubProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
	return s.listFn(ctx, input)
}

func (s *stubProductService) Get(ctx context.Context, id int) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) Categories(ctx context.Context) ([]string, error) {
	return s.categoriesFn(ctx)
}

func TestProductHandler_List_ParsesQueryParams(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
			if input.Category != "smartphones" || input.MinPrice != 100 || input.MaxPrice != 600 {
				t.Fatalf("unexpected filters: %+v", input)
			}
			if input.Limit != 5 || input.Skip != 10 {
				t.Fatalf("unexpected paging: %+v", input)
			}
			return &ports.ProductPage{
				Products: []domain.Product{{ID: 1, Title: "Phone", Price: 549}},
				Total:    1,
				Skip:     10,
				Limit:    5,
			}, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/products?category=smartphones&minPrice=100&maxPrice=600&limit=5&skip=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listProductsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Products) != 1 || resp.Total != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestProductHandler_List_EmptyPageIsArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
			return &ports.ProductPage{}, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["products"].([]any); !ok {
		t.Fatalf("products must marshal as [], got %s", rec.Body.String())
	}
}

func TestProductHandler_Get_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		getFn: func(ctx context.Context, id int) (*domain.Product, error) {
			if id != 7 {
				t.Fatalf("unexpected id: %d", id)
			}
			return &domain.Product{ID: 7, Title: "Keyboard", Price: 89}, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/products/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	e := newTestEcho()
	handler := NewProductHandler(&stubProductService{})

	req := httptest.NewRequest(http.MethodGet, "/products/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := handler.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestProductHandler_Categories_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		categoriesFn: func(ctx context.Context) ([]string, error) {
			return []string{"smartphones", "laptops"}, nil
		},
	}
	handler := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/products/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Categories(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var categories []string
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
}
