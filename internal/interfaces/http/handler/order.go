package handler

import (
	checkoutapp "github.com/estore/backend/internal/application/checkout"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles checkout and order history API endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
	orderService    *checkoutapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *checkoutapp.CheckoutService, orderService *checkoutapp.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// RegisterRoutes implements the router registrar interface.
// All order routes require an authenticated user.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)

	orders := rg.Group("/orders")
	{
		orders.GET("", h.History)
		orders.GET("/:id", h.Get)
	}
}

// RegisterAdminRoutes registers fulfilment routes, mounted behind
// authentication
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/admin/orders/:id/status", h.UpdateStatus)
}

// Checkout godoc
// @ID           checkout
// @Summary      Place an order from the cart
// @Description  Converts the user's cart into an order atomically, decrementing stock
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body checkoutapp.CheckoutRequest true "Shipping details"
// @Success      201 {object} APIResponse[checkoutapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.checkoutService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// History godoc
// @ID           listOrders
// @Summary      List the user's orders
// @Description  Paginated order history, newest first
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} APIResponse[[]checkoutapp.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter checkoutapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.orderService.History(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getOrderById
// @Summary      Get an order
// @Description  Retrieve one of the user's orders; other users' orders read as missing
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[checkoutapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Update an order's status
// @Description  Transitions an order through the fulfilment state machine
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body checkoutapp.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} APIResponse[checkoutapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req checkoutapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
