package handler

import (
	cartapp "github.com/estore/backend/internal/application/cart"
	"github.com/estore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles shopping cart API endpoints for both guests
// and authenticated users
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// RegisterRoutes implements the router registrar interface
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.View)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
	}
}

// resolveActor builds the cart owner from the request: the JWT user
// when authenticated, otherwise the shopping session token
func resolveActor(c *gin.Context) (cartapp.Actor, bool) {
	if userID := middleware.GetJWTUserUUID(c); userID != uuid.Nil {
		return cartapp.UserActor(userID), true
	}
	if token := middleware.GetSessionToken(c); token != "" {
		return cartapp.SessionActor(token), true
	}
	return cartapp.Actor{}, false
}

// View godoc
// @ID           viewCart
// @Summary      View the cart
// @Description  Returns the caller's cart with line totals computed from current prices
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		h.Unauthorized(c, "No user or shopping session")
		return
	}

	cart, err := h.cartService.View(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Adds a product, merging with an existing line for the same product
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Product and quantity"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		h.Unauthorized(c, "No user or shopping session")
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Set a cart item's quantity
// @Description  Sets the quantity of a cart line; zero or less removes it
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart item ID" format(uuid)
// @Param        request body cartapp.UpdateItemRequest true "New quantity"
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		h.Unauthorized(c, "No user or shopping session")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), actor, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a cart item
// @Tags         cart
// @Produce      json
// @Param        id path string true "Cart item ID" format(uuid)
// @Success      200 {object} APIResponse[cartapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor, ok := resolveActor(c)
	if !ok {
		h.Unauthorized(c, "No user or shopping session")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), actor, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}
