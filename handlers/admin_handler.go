package handlers

import (
	"CafeMaemi/controllers"
	"CafeMaemi/middleware"
	"CafeMaemi/ws"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes sets up the dashboard API, all behind the admin session
func RegisterAdminRoutes(router *gin.RouterGroup, adminController *controllers.AdminController, chatController *controllers.ChatController, live *ws.LiveHub) {
	adminGroup := router.Group("/admin", middleware.AdminOnly())
	{
		adminGroup.POST("/menu", adminController.CreateMenuItem)
		adminGroup.PUT("/menu/:id", adminController.UpdateMenuItem)
		adminGroup.DELETE("/menu/:id", adminController.DeleteMenuItem)

		adminGroup.POST("/reviews", adminController.CreateReview)
		adminGroup.PUT("/reviews/:id", adminController.UpdateReview)
		adminGroup.DELETE("/reviews/:id", adminController.DeleteReview)
		adminGroup.POST("/reviews/insights", chatController.ReviewInsights)

		adminGroup.POST("/gallery", adminController.CreateGalleryItem)
		adminGroup.PUT("/gallery/:id", adminController.UpdateGalleryItem)
		adminGroup.DELETE("/gallery/:id", adminController.DeleteGalleryItem)

		adminGroup.POST("/uploads", adminController.Upload)

		adminGroup.GET("/messages", adminController.ListMessages)
		adminGroup.DELETE("/messages/:id", adminController.DeleteMessage)

		adminGroup.GET("/live", live.HandleWebSocket)
	}
}
