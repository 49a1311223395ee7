package api

// GenerateRecipesRequest is the body of POST /api/recipes/generate
type GenerateRecipesRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// ErrorResponse represents an error payload
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
