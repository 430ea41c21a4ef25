package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopscout/backend/internal/domain"
)

// SearchService is the usecase surface the delivery layer depends on
type SearchService interface {
	Search(ctx context.Context, query string, extracted *domain.ExtractedProduct, constraints *domain.Constraints) (*domain.SearchResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService SearchService) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// searchRequest is the POST body for a product search
type searchRequest struct {
	Query       string                   `json:"query"`
	Product     *domain.ExtractedProduct `json:"product,omitempty"`
	Constraints *domain.Constraints      `json:"constraints,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopscout-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles product search requests
func (h *Handler) SearchProducts(c *gin.Context) {
	if h.searchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "search service not configured",
		})
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), req.Query, req.Product, req.Constraints)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidIntent):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrSourceUnavailable):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
