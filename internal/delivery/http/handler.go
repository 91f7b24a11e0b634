package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shoplist/backend/internal/domain"
	"github.com/shoplist/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	shopping *usecase.ShoppingService
	bills    *usecase.BillService
}

// NewHandler creates a new HTTP handler
func NewHandler(shopping *usecase.ShoppingService, bills *usecase.BillService) *Handler {
	return &Handler{
		shopping: shopping,
		bills:    bills,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shoplist-backend",
		"version": "1.0.0",
	})
}

// BuildShoplist handles POST /api/v1/shoplist: it runs the full recipe
// pipeline, optimizes the purchase allocation, and generates a bill.
func (h *Handler) BuildShoplist(c *gin.Context) {
	if h.shopping == nil || h.bills == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Shoplist service not configured",
		})
		return
	}

	var req domain.ShoplistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeUrl is required and must be a valid URL"})
		return
	}

	recipe, result, err := h.shopping.BuildShoplist(c.Request.Context(), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	bill, err := h.bills.GenerateBill(c.Request.Context(), recipe, result, req.Format)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
		"result": result,
		"bill":   bill,
	})
}

// Optimize handles POST /api/v1/optimize: it runs the optimizer directly
// over caller-provided ingredients and candidates.
func (h *Handler) Optimize(c *gin.Context) {
	if h.shopping == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Shoplist service not configured",
		})
		return
	}

	var req domain.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients and candidates are required"})
		return
	}

	result, err := h.shopping.OptimizeCandidates(&req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ListStores handles GET /api/v1/stores
func (h *Handler) ListStores(c *gin.Context) {
	if h.shopping == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Shoplist service not configured",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": h.shopping.Stores()})
}

// GetBill handles GET /api/v1/bills/:id. A format query of "html" returns
// the rendered receipt; the default returns the bill as JSON.
func (h *Handler) GetBill(c *gin.Context) {
	if h.bills == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Bill service not configured",
		})
		return
	}

	billID := c.Param("id")
	format := c.DefaultQuery("format", usecase.BillFormatJSON)

	if format == usecase.BillFormatJSON {
		bill, err := h.bills.GetBill(c.Request.Context(), billID)
		if err != nil {
			h.renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, bill)
		return
	}

	rendered, err := h.bills.GetRenderedBill(c.Request.Context(), billID, format)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", rendered)
}

// renderError maps domain errors to HTTP status codes
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, domain.ErrUnknownStore):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown store requested"})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported bill format"})
	case errors.Is(err, domain.ErrBillNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
	case errors.Is(err, domain.ErrNoRecipeFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No recipe found at the given URL"})
	case errors.Is(err, domain.ErrFetchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not fetch the recipe page"})
	case errors.Is(err, domain.ErrAIProviderFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI provider temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
