package handlers

import (
	"CafeMaemi/controllers"
	"CafeMaemi/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes sets up the localized views under /:lang
func RegisterPageRoutes(router *gin.Engine, pageController *controllers.PageController, contactController *controllers.ContactController, chatController *controllers.ChatController) {
	router.GET("/", pageController.Root)
	router.GET("/language/:code", pageController.SwitchLanguage)

	for _, page := range []string{"menu", "about", "reviews", "contact", "gallery"} {
		router.GET("/"+page, pageController.LegacyRedirect(page))
	}

	langGroup := router.Group("/:lang", middleware.Language())
	{
		langGroup.GET("", pageController.Home)
		langGroup.GET("/menu", pageController.Menu)
		langGroup.GET("/reviews", pageController.Reviews)
		langGroup.GET("/gallery", pageController.Gallery)
		langGroup.GET("/about", pageController.About)
		langGroup.POST("/contact", contactController.Submit)
		langGroup.POST("/recommend", chatController.Recommend)
		langGroup.POST("/recommend/stream", chatController.RecommendStream)
	}
}
