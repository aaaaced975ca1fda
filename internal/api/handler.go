package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"pharmapos/internal/catalog"
	"pharmapos/internal/models"
	"pharmapos/internal/service"
	"pharmapos/internal/store"
	"pharmapos/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backoffice is the persisted catalog and sales history behind the
// admin endpoints. A nil Backoffice disables those routes.
type Backoffice interface {
	UpsertCatalogItem(ctx context.Context, item models.Item) error
	GetCatalogItem(ctx context.Context, name string) (*models.Item, error)
	GetCatalogItems(ctx context.Context) ([]models.Item, error)
	GetSalesByClient(ctx context.Context, client string) ([]store.SaleRow, error)
}

// Handler contains HTTP handlers
type Handler struct {
	saleService *service.SaleService
	backoffice  Backoffice
}

// NewHandler creates a new HTTP handler
func NewHandler(saleService *service.SaleService, backoffice Backoffice) *Handler {
	return &Handler{saleService: saleService, backoffice: backoffice}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sales", h.performSale)
		v1.GET("/sales/:id", h.getSale)
		v1.DELETE("/sales/:id", h.cancelSale)
		v1.POST("/sales/:id/return", h.returnItem)
		v1.POST("/sales/undo", h.undoLast)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/advance", h.advanceOrder)
		v1.PUT("/orders/:id/state", h.forceOrderState)

		if h.backoffice != nil {
			v1.POST("/catalog", h.upsertCatalogItem)
			v1.GET("/catalog", h.listCatalog)
			v1.GET("/catalog/:name", h.getCatalogItem)
			v1.GET("/clients/:client/sales", h.getSalesByClient)
		}
	}
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

// performSale runs a sale through the pipeline
func (h *Handler) performSale(c *gin.Context) {
	var req service.PerformSaleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	resp, err := h.saleService.PerformSale(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid sale",
			"details": err.Error(),
		})
		return
	}

	switch resp.Status {
	case service.SaleStatusCompleted:
		c.JSON(http.StatusCreated, resp)
	case service.SaleStatusDuplicate:
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusConflict, resp)
	}
}

// getSale returns a registered sale
func (h *Handler) getSale(c *gin.Context) {
	sale, ok := h.saleService.GetSale(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

// cancelSale removes a registered sale
func (h *Handler) cancelSale(c *gin.Context) {
	found, err := h.saleService.CancelSale(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

type returnItemRequest struct {
	Item string `json:"item" binding:"required"`
}

// returnItem removes one item from a registered sale
func (h *Handler) returnItem(c *gin.Context) {
	var req returnItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	found, err := h.saleService.ReturnItem(c.Param("id"), req.Item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale or item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"returned": true})
}

// undoLast undoes the most recent command
func (h *Handler) undoLast(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"undone": h.saleService.UndoLast()})
}

// getOrder returns an order's lifecycle state
func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.saleService.Orders().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// advanceOrder moves an order one lifecycle step forward
func (h *Handler) advanceOrder(c *gin.Context) {
	status, err := h.saleService.Orders().Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type forceStateRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// forceOrderState overrides an order's lifecycle state
func (h *Handler) forceOrderState(c *gin.Context) {
	var req forceStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.saleService.Orders().ForceState(c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

type catalogItemRequest struct {
	Name    string `json:"name" binding:"required"`
	Kind    string `json:"kind" binding:"required"`
	AuxInfo string `json:"aux_info,omitempty"`
	Price   int64  `json:"price" binding:"required"`
}

// upsertCatalogItem creates or updates a catalog item
func (h *Handler) upsertCatalogItem(c *gin.Context) {
	var req catalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := catalog.NewItem(models.ItemKind(req.Kind), req.Name, req.AuxInfo, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.backoffice.UpsertCatalogItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// listCatalog returns all catalog items
func (h *Handler) listCatalog(c *gin.Context) {
	items, err := h.backoffice.GetCatalogItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// getCatalogItem returns one catalog item by name
func (h *Handler) getCatalogItem(c *gin.Context) {
	item, err := h.backoffice.GetCatalogItem(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// getSalesByClient returns a client's journaled sales
func (h *Handler) getSalesByClient(c *gin.Context) {
	sales, err := h.backoffice.GetSalesByClient(c.Request.Context(), c.Param("client"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
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
