package route

import (
	"net/http"
	"strings"

	"CafeMaemi/controllers"
	"CafeMaemi/handlers"
	"CafeMaemi/middleware"
	"CafeMaemi/services"
	"CafeMaemi/utils"
	"CafeMaemi/ws"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the routes are built from.
type Dependencies struct {
	Content         *services.ContentService
	Sessions        *services.SessionService
	Recommendations *services.RecommendationService
	Live            *ws.LiveHub
	// MemoryBlobs is set when assets are kept in process and served under /uploads.
	MemoryBlobs *services.MemoryBlobStore
}

// RegisterRoutes initializes all routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	pageController := controllers.NewPageController(deps.Content)
	contactController := controllers.NewContactController(deps.Content)
	chatController := controllers.NewChatController(deps.Recommendations, deps.Content)
	sessionController := controllers.NewSessionController(deps.Sessions)
	adminController := controllers.NewAdminController(deps.Content, deps.Live)
	streamController := controllers.NewStreamController(deps.Content)
	healthController := controllers.NewHealthController(deps.Content)

	router.GET("/healthz", healthController.Status)

	// Register the routes
	handlers.RegisterPageRoutes(router, pageController, contactController, chatController)
	handlers.RegisterSessionRoutes(&router.RouterGroup, sessionController)
	router.GET("/admin", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/dashboard") })
	router.GET("/admin/dashboard", middleware.AdminOnly(), adminController.Dashboard)
	router.GET("/crm", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/admin") })

	v1Routes := router.Group("/api/v1")
	{
		handlers.RegisterStreamRoutes(v1Routes, streamController)
		handlers.RegisterAdminRoutes(v1Routes, adminController, chatController, deps.Live)
	}

	if deps.MemoryBlobs != nil {
		blobController := controllers.NewBlobController(deps.MemoryBlobs)
		router.GET("/uploads/*path", blobController.Serve)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			utils.ErrorResponse(c, http.StatusNotFound, "Not found")
			return
		}
		c.Redirect(http.StatusFound, "/")
	})
}
