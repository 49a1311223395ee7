package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// maxIngredientLength bounds a single ingredient name
const maxIngredientLength = 100

// recipesPerRequest is how many suggestions the provider is asked for
const recipesPerRequest = "2-3"

// Difficulty levels a generated recipe may carry
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Nutrition holds the per-serving estimate returned by the provider.
// Protein and carbs are human-readable magnitude strings like "28g".
type Nutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
}

// Recipe is a single generated recipe suggestion
type Recipe struct {
	Name         string    `json:"name"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	CookingTime  string    `json:"cookingTime"`
	Difficulty   string    `json:"difficulty"`
	Nutrition    Nutrition `json:"nutrition"`
}

// RecipeResponse is the payload returned to the client. Success false with a
// message means the provider answered but produced nothing usable.
type RecipeResponse struct {
	Recipes []Recipe `json:"recipes"`
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
}

// RecipeService turns an ingredient list into recipe suggestions via the LLM
type RecipeService struct {
	llm          *LLMService
	interactions *InteractionService
}

// NewRecipeService creates a new RecipeService instance. The interaction
// service may be nil, in which case calls are not recorded.
func NewRecipeService(llm *LLMService, interactions *InteractionService) *RecipeService {
	return &RecipeService{
		llm:          llm,
		interactions: interactions,
	}
}

// ParseIngredients splits raw comma-separated input into an ingredient list,
// trimming whitespace and dropping empty segments.
func ParseIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	ingredients := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ingredients = append(ingredients, trimmed)
		}
	}
	return ingredients
}

// SanitizeIngredients normalizes a submitted ingredient list: embedded commas
// are split out, entries are trimmed and lowercased, empties and oversized
// entries are dropped.
func SanitizeIngredients(ingredients []string) []string {
	sanitized := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		for _, part := range ParseIngredients(ingredient) {
			cleaned := strings.ToLower(part)
			if len(cleaned) <= maxIngredientLength {
				sanitized = append(sanitized, cleaned)
			}
		}
	}
	return sanitized
}

// ValidateIngredients rejects lists that cannot produce a prompt
func ValidateIngredients(ingredients []string) error {
	if len(ingredients) == 0 {
		return fmt.Errorf("ingredients list cannot be empty")
	}
	for _, ingredient := range ingredients {
		if len(strings.TrimSpace(ingredient)) > maxIngredientLength {
			return fmt.Errorf("ingredient %q is too long", ingredient)
		}
	}
	return nil
}

// GenerateFromIngredients asks the provider for recipes using the given
// sanitized ingredient list. A transport or provider failure is returned as
// an error; a malformed or empty completion yields a success:false response.
// Every call is recorded as an interaction when a store is attached.
func (s *RecipeService) GenerateFromIngredients(ctx context.Context, ingredients []string) (*RecipeResponse, error) {
	if err := ValidateIngredients(ingredients); err != nil {
		return nil, err
	}

	content, err := s.llm.Complete(ctx, recipeSystemPrompt, buildRecipePrompt(ingredients))
	if err != nil {
		s.record(ctx, ingredients, "", nil, err.Error())
		return nil, err
	}

	recipes, parseErr := parseRecipes(content)
	if parseErr != nil {
		s.record(ctx, ingredients, content, nil, parseErr.Error())
		return &RecipeResponse{
			Recipes: []Recipe{},
			Success: false,
			Message: "Failed to generate recipes: " + parseErr.Error(),
		}, nil
	}

	if len(recipes) == 0 {
		s.record(ctx, ingredients, content, recipes, "no valid recipes in completion")
		return &RecipeResponse{
			Recipes: []Recipe{},
			Success: false,
			Message: "No recipes could be generated with the provided ingredients",
		}, nil
	}

	s.record(ctx, ingredients, content, recipes, "")
	return &RecipeResponse{
		Recipes: recipes,
		Success: true,
		Message: fmt.Sprintf("Generated %d recipes using your ingredients", len(recipes)),
	}, nil
}

// record stores the interaction, logging rather than failing on error
func (s *RecipeService) record(ctx context.Context, ingredients []string, raw string, recipes []Recipe, errMsg string) {
	if s.interactions == nil {
		return
	}
	if _, err := s.interactions.Record(ctx, ingredients, raw, len(recipes), errMsg == "", errMsg); err != nil {
		log.Printf("Failed to store interaction: %v", err)
	}
}

const recipeSystemPrompt = `You are a professional chef and nutritionist. Respond with valid JSON only, no additional text or explanations.`

// buildRecipePrompt produces the deterministic prompt embedding the
// ingredient list and the fixed output-schema instruction.
func buildRecipePrompt(ingredients []string) string {
	return fmt.Sprintf(`Generate %s creative recipe suggestions using these ingredients: %s

Requirements:
- Each recipe must use the provided ingredients as primary components
- Include estimated cooking time and difficulty level
- Provide realistic nutritional information (calories, protein, carbs)
- Format response as valid JSON only
- Be creative but practical with cooking instructions

Response format (return ONLY valid JSON):
{
  "recipes": [
    {
      "name": "Recipe Name",
      "ingredients": ["ingredient1", "ingredient2", "additional_ingredients_needed"],
      "instructions": ["step1", "step2", "step3"],
      "cookingTime": "X minutes",
      "difficulty": "Easy/Medium/Hard",
      "nutrition": {
        "calories": 400,
        "protein": "Xg",
        "carbs": "Xg"
      }
    }
  ]
}

Note: the calories field must be a number. The difficulty field must be exactly one of Easy, Medium or Hard.`,
		recipesPerRequest, strings.Join(ingredients, ", "))
}

// parseRecipes parses a completion as a recipes payload, keeping only
// recipes that satisfy the schema. Invalid entries are skipped, not fatal.
func parseRecipes(content string) ([]Recipe, error) {
	cleaned := ExtractJSON(content)

	var wrapper struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse AI response as JSON: %w", err)
	}

	recipes := make([]Recipe, 0, len(wrapper.Recipes))
	for _, recipe := range wrapper.Recipes {
		if err := ValidateRecipe(&recipe); err != nil {
			log.Printf("Skipping invalid recipe: %v", err)
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// ValidateRecipe checks a recipe against the schema contract: every field
// present and difficulty one of the known levels.
func ValidateRecipe(r *Recipe) error {
	if r.Name == "" {
		return fmt.Errorf("recipe name is required")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("recipe %q has no ingredients", r.Name)
	}
	if len(r.Instructions) == 0 {
		return fmt.Errorf("recipe %q has no instructions", r.Name)
	}
	if r.CookingTime == "" {
		return fmt.Errorf("recipe %q has no cooking time", r.Name)
	}
	switch r.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("recipe %q has invalid difficulty %q", r.Name, r.Difficulty)
	}
	if r.Nutrition.Calories <= 0 {
		return fmt.Errorf("recipe %q has no calorie estimate", r.Name)
	}
	if r.Nutrition.Protein == "" || r.Nutrition.Carbs == "" {
		return fmt.Errorf("recipe %q has incomplete nutrition information", r.Name)
	}
	return nil
}

// SampleRecipes returns a canned response for offline testing without
// calling the AI provider.
func SampleRecipes() *RecipeResponse {
	return &RecipeResponse{
		Recipes: []Recipe{
			{
				Name:        "Sample Pasta Dish",
				Ingredients: []string{"pasta", "garlic", "olive oil", "parmesan"},
				Instructions: []string{
					"Boil pasta according to package instructions",
					"Sauté minced garlic in olive oil",
					"Toss pasta with garlic oil and parmesan",
				},
				CookingTime: "15 minutes",
				Difficulty:  DifficultyEasy,
				Nutrition: Nutrition{
					Calories: 400,
					Protein:  "12g",
					Carbs:    "65g",
				},
			},
		},
		Success: true,
		Message: "Sample recipe for testing purposes",
	}
}
