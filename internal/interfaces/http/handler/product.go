package handler

import (
	"strconv"

	catalogapp "github.com/estore/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles storefront catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// RegisterRoutes implements the router registrar interface
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/featured", h.Featured)
		products.GET("/:id", h.Get)
		products.GET("/:id/related", h.Related)
	}
}

// RegisterAdminRoutes registers catalog management routes, mounted
// behind authentication
func (h *ProductHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/admin/products")
	{
		products.POST("", h.Create)
		products.PUT("/:id", h.Update)
		products.PUT("/:id/price", h.SetPrice)
		products.POST("/:id/stock", h.AdjustStock)
	}
}

// List godoc
// @ID           listProducts
// @Summary      List available products
// @Description  Paginated listing of active, in-stock products with optional search
// @Tags         products
// @Produce      json
// @Param        search query string false "Search in name and description"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ListProductsFilter
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

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Featured godoc
// @ID           listFeaturedProducts
// @Summary      List featured products
// @Description  Returns the newest available products for the home page
// @Tags         products
// @Produce      json
// @Param        limit query int false "Number of products (max 50)"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Router       /products/featured [get]
func (h *ProductHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	products, err := h.productService.Featured(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Get godoc
// @ID           getProductById
// @Summary      Get a product
// @Description  Retrieve a single product by ID, including out-of-stock products
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Related godoc
// @ID           listRelatedProducts
// @Summary      List related products
// @Description  Returns available products shown alongside a product page
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        limit query int false "Number of products (max 20)"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/related [get]
func (h *ProductHandler) Related(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	products, err := h.productService.Related(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  Create a new catalog product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Update a product's details and active flag
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetPrice godoc
// @ID           setProductPrice
// @Summary      Change a product's price
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.SetPriceRequest true "New price"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/price [put]
func (h *ProductHandler) SetPrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.SetPrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AdjustStock godoc
// @ID           adjustProductStock
// @Summary      Adjust a product's stock
// @Description  Applies a signed stock delta; the result may not go negative
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.AdjustStockRequest true "Stock delta"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
