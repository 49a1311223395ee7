package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartrecipe/analyzer/internal/model"
)

// defaultRecentLimit caps the recent-interactions listing when the caller
// does not specify one
const defaultRecentLimit = 10

// InteractionService persists generate calls for offline inspection
type InteractionService struct {
	db *gorm.DB
}

// NewInteractionService creates a new InteractionService instance
func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// InteractionStats summarizes the stored interactions
type InteractionStats struct {
	TotalInteractions      int64   `json:"total_interactions"`
	SuccessfulInteractions int64   `json:"successful_interactions"`
	FailedInteractions     int64   `json:"failed_interactions"`
	SuccessRate            float64 `json:"success_rate"`
	TotalRecipesGenerated  int64   `json:"total_recipes_generated"`
	AverageRecipesPerCall  float64 `json:"average_recipes_per_interaction"`
}

// Record stores one generate call
func (s *InteractionService) Record(ctx context.Context, ingredients []string, rawResponse string, recipeCount int, success bool, errorMessage string) (*model.Interaction, error) {
	interaction := &model.Interaction{
		ID:           uuid.New(),
		Ingredients:  model.JSONStringArray(ingredients),
		RawResponse:  rawResponse,
		RecipeCount:  recipeCount,
		Success:      success,
		ErrorMessage: errorMessage,
	}

	if err := s.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return nil, fmt.Errorf("failed to store interaction: %w", err)
	}
	return interaction, nil
}

// All returns every stored interaction in insertion order
func (s *InteractionService) All(ctx context.Context) ([]model.Interaction, error) {
	var interactions []model.Interaction
	if err := s.db.WithContext(ctx).Order("created_at").Find(&interactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return interactions, nil
}

// Recent returns the newest interactions, newest first
func (s *InteractionService) Recent(ctx context.Context, limit int) ([]model.Interaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var interactions []model.Interaction
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&interactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent interactions: %w", err)
	}
	return interactions, nil
}

// Get retrieves a single interaction by ID
func (s *InteractionService) Get(ctx context.Context, id uuid.UUID) (*model.Interaction, error) {
	var interaction model.Interaction
	if err := s.db.WithContext(ctx).First(&interaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &interaction, nil
}

// Stats computes aggregate figures over the stored interactions
func (s *InteractionService) Stats(ctx context.Context) (*InteractionStats, error) {
	stats := &InteractionStats{}
	db := s.db.WithContext(ctx).Model(&model.Interaction{})

	if err := db.Count(&stats.TotalInteractions).Error; err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	if stats.TotalInteractions == 0 {
		return stats, nil
	}

	if err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("success = ?", true).Count(&stats.SuccessfulInteractions).Error; err != nil {
		return nil, fmt.Errorf("failed to count successful interactions: %w", err)
	}
	stats.FailedInteractions = stats.TotalInteractions - stats.SuccessfulInteractions
	stats.SuccessRate = float64(stats.SuccessfulInteractions) / float64(stats.TotalInteractions) * 100

	var totalRecipes sql.NullInt64
	if err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Select("SUM(recipe_count)").Scan(&totalRecipes).Error; err != nil {
		return nil, fmt.Errorf("failed to sum recipe counts: %w", err)
	}
	stats.TotalRecipesGenerated = totalRecipes.Int64
	if stats.SuccessfulInteractions > 0 {
		stats.AverageRecipesPerCall = float64(stats.TotalRecipesGenerated) / float64(stats.SuccessfulInteractions)
	}

	return stats, nil
}
