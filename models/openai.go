package models

// RecommendationRequest is what the AI waiter widget posts.
type RecommendationRequest struct {
	Query string `json:"query" binding:"required"`
}

// RecommendationResponse always carries text, a fallback when the model is unavailable.
type RecommendationResponse struct {
	Text     string   `json:"text"`
	Language Language `json:"language"`
}
