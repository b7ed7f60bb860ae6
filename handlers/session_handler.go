package handlers

import (
	"CafeMaemi/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSessionRoutes(router *gin.RouterGroup, sessionController *controllers.SessionController) {
	sessionGroup := router.Group("/admin")
	{
		sessionGroup.GET("/session", sessionController.Status)
		sessionGroup.POST("/login", sessionController.Login)
		sessionGroup.POST("/logout", sessionController.Logout)
	}
}
