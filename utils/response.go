package utils

import "github.com/gin-gonic/gin"

// Response is the envelope every JSON endpoint returns.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{StatusCode: statusCode, Message: message, Data: data})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Response{StatusCode: statusCode, Message: message})
}

func ErrorResponseWithData(c *gin.Context, statusCode int, message string, data interface{}) {
	c.AbortWithStatusJSON(statusCode, Response{StatusCode: statusCode, Message: message, Data: data})
}
