package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartrecipe/analyzer/internal/service"
)

// InteractionHandler exposes the stored generate-call history
type InteractionHandler struct {
	interactionService *service.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler instance
func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// RegisterRoutes registers the interaction routes
func (h *InteractionHandler) RegisterRoutes(router *gin.RouterGroup) {
	interactions := router.Group("/interactions")
	{
		interactions.GET("/all", h.All)
		interactions.GET("/recent", h.Recent)
		interactions.GET("/stats", h.Stats)
		interactions.GET("/:id", h.Get)
	}
}

// All handles GET /api/interactions/all
func (h *InteractionHandler) All(c *gin.Context) {
	interactions, err := h.interactionService.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list interactions", Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interactions": interactions,
		"total":        len(interactions),
	})
}

// Recent handles GET /api/interactions/recent?limit=10
func (h *InteractionHandler) Recent(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	interactions, err := h.interactionService.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list recent interactions", Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interactions": interactions,
		"total":        len(interactions),
		"limit":        limit,
	})
}

// Stats handles GET /api/interactions/stats
func (h *InteractionHandler) Stats(c *gin.Context) {
	stats, err := h.interactionService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to compute interaction stats", Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/interactions/:id
func (h *InteractionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid interaction id"})
		return
	}

	interaction, err := h.interactionService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "interaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load interaction", Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, interaction)
}
