package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/analyzer/internal/middleware"
	"github.com/smartrecipe/analyzer/internal/service"
)

// RecipeHandler handles recipe generation requests
type RecipeHandler struct {
	recipeService *service.RecipeService
	rateLimiter   *middleware.RateLimiter
}

// NewRecipeHandler creates a new RecipeHandler instance. The rate limiter
// may be nil when Redis is unavailable.
func NewRecipeHandler(recipeService *service.RecipeService, rateLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		rateLimiter:   rateLimiter,
	}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		if h.rateLimiter != nil {
			recipes.POST("/generate", h.rateLimiter.RateLimitMiddleware(), h.Generate)
		} else {
			recipes.POST("/generate", h.Generate)
		}
		recipes.GET("/sample", h.Sample)
	}
}

// Generate handles POST /api/recipes/generate
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Detail: err.Error()})
		return
	}

	ingredients := service.SanitizeIngredients(req.Ingredients)
	if err := service.ValidateIngredients(ingredients); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	log.Printf("Generating recipes for %d ingredients", len(ingredients))

	resp, err := h.recipeService.GenerateFromIngredients(c.Request.Context(), ingredients)
	if err != nil {
		if errors.Is(err, service.ErrLLMNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "recipe generation is unavailable", Detail: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "failed to reach the AI provider", Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Sample handles GET /api/recipes/sample. It never calls the AI provider, so
// it works without an API key.
func (h *RecipeHandler) Sample(c *gin.Context) {
	c.JSON(http.StatusOK, service.SampleRecipes())
}
