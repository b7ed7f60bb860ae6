package controllers

import (
	"net/http"
	"strings"

	"CafeMaemi/middleware"
	"CafeMaemi/models"
	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

// ChatController is the AI waiter and the review insight endpoint.
type ChatController struct {
	Recommendations *services.RecommendationService
	Content         *services.ContentService
}

func NewChatController(recommendations *services.RecommendationService, content *services.ContentService) *ChatController {
	return &ChatController{Recommendations: recommendations, Content: content}
}

func (cc *ChatController) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	lang := middleware.RequestLanguage(c)

	text := cc.Recommendations.Recommend(c.Request.Context(), strings.TrimSpace(req.Query), cc.Content.Menu.Items(), lang)
	utils.SuccessResponse(c, http.StatusOK, "Recommendation generated", models.RecommendationResponse{Text: text, Language: lang})
}

// RecommendStream streams the answer as SSE "recommendation" events and
// closes with a "done_recommendations" event carrying the whole text.
func (cc *ChatController) RecommendStream(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	lang := middleware.RequestLanguage(c)

	// Set SSE headers
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	chunks := make(chan string)
	go cc.Recommendations.StreamRecommendation(c.Request.Context(), chunks, strings.TrimSpace(req.Query), cc.Content.Menu.Items(), lang)

	var parts []string
	for chunk := range chunks {
		parts = append(parts, chunk)
		c.SSEvent("recommendation", chunk)
		c.Writer.Flush()
	}

	c.SSEvent("done_recommendations", gin.H{
		"statusCode": http.StatusOK,
		"message":    "Recommendation process completed",
		"data":       models.RecommendationResponse{Text: strings.Join(parts, ""), Language: lang},
	})
	c.Writer.Flush()
}

// ReviewInsights summarizes the mirrored reviews for the dashboard.
func (cc *ChatController) ReviewInsights(c *gin.Context) {
	lang, ok := services.ParseLanguage(c.Query("lang"))
	if !ok {
		lang = middleware.RequestLanguage(c)
	}
	text := cc.Recommendations.SummarizeReviews(c.Request.Context(), cc.Content.Reviews.Items(), lang)
	utils.SuccessResponse(c, http.StatusOK, "Review insights generated", models.RecommendationResponse{Text: text, Language: lang})
}
