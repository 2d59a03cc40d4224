package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	inventory *service.InventoryService
	catalog   *service.CatalogService
	pageLimit int
}

// NewHandler creates a new HTTP handler
func NewHandler(inventory *service.InventoryService, catalog *service.CatalogService, pageLimit int) *Handler {
	return &Handler{
		inventory: inventory,
		catalog:   catalog,
		pageLimit: pageLimit,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/categories", h.createCategory)
	router.GET("/categories", h.listCategories)

	router.POST("/subcategories", h.createSubcategory)
	router.GET("/subcategories", h.listSubcategories)

	router.GET("/products", h.listProducts)
	router.GET("/products/sold", h.listSoldProducts)
	router.GET("/products/:id", h.getProduct)
	router.POST("/products", h.createProduct)
	router.DELETE("/products/:id", h.deleteProduct)
	router.PATCH("/products/:id/price", h.updatePrice)
	router.PATCH("/products/:id/stock", h.updateStock)
	router.POST("/products/:id/reserve", h.reserveProduct)
	router.DELETE("/products/:id/cancel-reservation", h.cancelReservation)
	router.POST("/products/:id/sell", h.sellProduct)
	router.PATCH("/products/:id/start-promotion", h.startPromotion)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// CreateCategoryRequest represents a category creation body
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1"`
}

// createCategory handles category creation
func (h *Handler) createCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// listCategories handles paginated category listing
func (h *Handler) listCategories(c *gin.Context) {
	skip, limit := h.pagination(c)

	categories, err := h.catalog.ListCategories(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateSubcategoryRequest represents a subcategory creation body
type CreateSubcategoryRequest struct {
	Name       string `json:"name" binding:"required,min=1"`
	CategoryID int64  `json:"category_id" binding:"required"`
}

// createSubcategory handles subcategory creation
func (h *Handler) createSubcategory(c *gin.Context) {
	var req CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	subcategory, err := h.catalog.CreateSubcategory(c.Request.Context(), req.Name, req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subcategory)
}

// listSubcategories handles paginated subcategory listing
func (h *Handler) listSubcategories(c *gin.Context) {
	skip, limit := h.pagination(c)
	categoryID, err := optionalInt64Query(c, "category_id")
	if err != nil {
		badRequest(c, err)
		return
	}

	subcategories, err := h.catalog.ListSubcategories(c.Request.Context(), skip, limit, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subcategories)
}

// listProducts handles paginated product listing with optional filters
func (h *Handler) listProducts(c *gin.Context) {
	skip, limit := h.pagination(c)

	var filter store.ProductFilter
	var err error
	if filter.CategoryID, err = optionalInt64Query(c, "category_id"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.SubcategoryID, err = optionalInt64Query(c, "subcategory_id"); err != nil {
		badRequest(c, err)
		return
	}

	products, err := h.inventory.ListProducts(c.Request.Context(), skip, limit, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.inventory.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventory.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// deleteProduct handles product deletion
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.inventory.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdatePriceRequest represents a price update body
type UpdatePriceRequest struct {
	NewPrice float64 `json:"new_price" binding:"required,gt=0"`
}

// updatePrice handles base price updates
func (h *Handler) updatePrice(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventory.UpdatePrice(c.Request.Context(), id, req.NewPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateStockRequest represents a stock update body
type UpdateStockRequest struct {
	NewStock *int `json:"new_stock" binding:"required,min=0"`
}

// updateStock handles stock count updates
func (h *Handler) updateStock(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventory.UpdateStock(c.Request.Context(), id, *req.NewStock)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// reserveProduct handles reserving one unit
func (h *Handler) reserveProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.inventory.Reserve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// cancelReservation handles releasing one reserved unit
func (h *Handler) cancelReservation(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.inventory.CancelReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// sellProduct handles selling one reserved unit
func (h *Handler) sellProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.inventory.Sell(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// startPromotion handles applying a promotion discount
func (h *Handler) startPromotion(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	discount, err := strconv.ParseFloat(c.Query("discount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount"})
		return
	}

	product, err := h.inventory.StartPromotion(c.Request.Context(), id, discount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// listSoldProducts handles the sold products report
func (h *Handler) listSoldProducts(c *gin.Context) {
	var filter store.SoldFilter
	var err error

	if filter.StartDate, err = optionalDateQuery(c, "start_date"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.EndDate, err = optionalDateQuery(c, "end_date"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.CategoryID, err = optionalInt64Query(c, "category_id"); err != nil {
		badRequest(c, err)
		return
	}

	products, err := h.inventory.ListSold(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// pagination reads skip/limit query params with defaults
func (h *Handler) pagination(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageLimit)))
	if err != nil || limit <= 0 {
		limit = h.pageLimit
	}
	return skip, limit
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}

func optionalInt64Query(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &val, nil
}

func optionalDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	val, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &val, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": err.Error(),
	})
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrNothingReserved),
		errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
