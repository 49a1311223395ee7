package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartrecipe/analyzer/config"
	"github.com/smartrecipe/analyzer/internal/database"
	"github.com/smartrecipe/analyzer/internal/middleware"
	"github.com/smartrecipe/analyzer/internal/service"
)

// HealthCheck returns the liveness status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Smart Recipe Analyzer",
	})
}

// HealthHandler reports detailed service health
type HealthHandler struct {
	db  *gorm.DB
	llm *service.LLMService
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *gorm.DB, llm *service.LLMService) *HealthHandler {
	return &HealthHandler{db: db, llm: llm}
}

// Detailed handles GET /api/health: checks the interaction store and the AI
// provider with a trivial completion.
func (h *HealthHandler) Detailed(c *gin.Context) {
	status := "healthy"
	services := gin.H{}

	if err := database.HealthCheck(h.db); err != nil {
		status = "degraded"
		services["database"] = "unavailable"
	} else {
		services["database"] = "operational"
	}

	switch {
	case !h.llm.Configured():
		status = "degraded"
		services["ai_provider"] = "unconfigured"
	case h.llm.TestConnection(c.Request.Context()):
		services["ai_provider"] = "operational"
	default:
		status = "degraded"
		services["ai_provider"] = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, llmService *service.LLMService, cfg *config.Config) {
	router.Use(middleware.CORS())

	// Rate limiting is optional: without Redis the server runs unthrottled
	var generationLimiter *middleware.RateLimiter
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis for rate limiting: %v", err)
		} else {
			generationLimiter = middleware.NewGenerationRateLimiter(redisClient)
		}
	}

	interactionService := service.NewInteractionService(db)
	recipeService := service.NewRecipeService(llmService, interactionService)

	healthHandler := NewHealthHandler(db, llmService)
	recipeHandler := NewRecipeHandler(recipeService, generationLimiter)
	interactionHandler := NewInteractionHandler(interactionService)

	// Liveness probe outside the API group
	router.GET("/health", HealthCheck)

	apiGroup := router.Group("/api")
	apiGroup.GET("/health", healthHandler.Detailed)
	recipeHandler.RegisterRoutes(apiGroup)
	interactionHandler.RegisterRoutes(apiGroup)
}
