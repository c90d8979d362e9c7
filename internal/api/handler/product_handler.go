package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

// ProductHandler proxies the third-party product catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type listProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// List handles GET /products with optional category, minPrice, maxPrice,
// search, limit and skip query parameters.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query  string  false  "Category substring filter"
// @Param        minPrice  query  number  false  "Minimum price"
// @Param        maxPrice  query  number  false  "Maximum price"
// @Param        search    query  string  false  "Search query"
// @Param        limit     query  int     false  "Page size (default 20)"
// @Param        skip      query  int     false  "Offset"
// @Success      200  {object}  listProductsResponse
// @Failure      500  {object}  errorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	input := ports.ListProductsInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	input.MinPrice, _ = strconv.ParseFloat(c.QueryParam("minPrice"), 64)
	input.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("maxPrice"), 64)
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	input.Skip, _ = strconv.Atoi(c.QueryParam("skip"))

	page, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	products := page.Products
	if products == nil {
		products = []domain.Product{}
	}

	return c.JSON(http.StatusOK, listProductsResponse{
		Products: products,
		Total:    page.Total,
		Skip:     page.Skip,
		Limit:    page.Limit,
	})
}

// Get handles GET /products/:id.
//
// @Summary      Get a single product
// @Tags         products
// @Produce      json
// @Param        id  path  int  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

// Categories handles GET /products/categories.
//
// @Summary      List product categories
// @Tags         products
// @Produce      json
// @Success      200  {array}   string
// @Failure      500  {object}  errorResponse
// @Router       /products/categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(http.StatusOK, categories)
}
