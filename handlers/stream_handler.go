package handlers

import (
	"CafeMaemi/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterStreamRoutes(router *gin.RouterGroup, streamController *controllers.StreamController) {
	router.GET("/stream/:collection", streamController.Stream)
}
