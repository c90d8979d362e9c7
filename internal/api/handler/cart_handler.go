package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

// CartHandler handles HTTP requests for the authenticated user's cart. The
// identity always comes from the bearer token claims, never from the request.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /cart.
//
// @Summary      Get the current user's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  getCartResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.service.GetCart(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getCartResponse{Cart: orEmpty(cart)})
}

// Add handles POST /cart/add. An existing line for the same product has its
// quantity incremented rather than overwritten.
//
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  string          header  false  "Makes retried adds at-most-once"
// @Param        body             body            addItemRequest  true  "Product snapshot"
// @Success      200  {object}  cartMutationResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.service.AddItem(c.Request().Context(), ports.AddItemInput{
		UserID:         userID,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		Title:          req.Title,
		UnitPrice:      req.Price,
		Image:          req.Image,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartMutationResponse{Message: "Item added to cart", Cart: orEmpty(cart)})
}

// Update handles PUT /cart/update/:productId. A quantity below 1 is rejected;
// removal must go through the remove endpoint.
//
// @Summary      Update the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path  string                 true  "Product id"
// @Param        body       body  updateQuantityRequest  true  "New quantity"
// @Success      200  {object}  cartMutationResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /cart/update/{productId} [put]
func (h *CartHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.service.UpdateQuantity(c.Request().Context(), userID, c.Param("productId"), req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartMutationResponse{Message: "Cart updated", Cart: orEmpty(cart)})
}

// Remove handles DELETE /cart/remove/:productId. Removing an absent line is
// not an error.
//
// @Summary      Remove a line from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path  string  true  "Product id"
// @Success      200  {object}  cartMutationResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart/remove/{productId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.service.RemoveItem(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartMutationResponse{Message: "Item removed from cart", Cart: orEmpty(cart)})
}

// Clear handles DELETE /cart/clear.
//
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartMutationResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart/clear [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.service.ClearCart(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartMutationResponse{Message: "Cart cleared", Cart: orEmpty(cart)})
}

// AdminGet handles GET /admin/carts/:userId — support view of any user's
// persisted cart. Route is gated to the admin role.
//
// @Summary      Inspect a user's cart (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  string  true  "User id"
// @Success      200  {object}  getCartResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/carts/{userId} [get]
func (h *CartHandler) AdminGet(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	cart, err := h.service.GetCart(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getCartResponse{Cart: orEmpty(cart)})
}

// orEmpty guarantees the cart marshals as [] rather than null when empty.
func orEmpty(cart domain.Cart) domain.Cart {
	if cart == nil {
		return domain.Cart{}
	}
	return cart
}
