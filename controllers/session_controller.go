package controllers

import (
	"net/http"

	"CafeMaemi/middleware"
	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Sessions *services.SessionService
}

func NewSessionController(sessions *services.SessionService) *SessionController {
	return &SessionController{Sessions: sessions}
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SessionStatus struct {
	Authenticated bool `json:"authenticated"`
}

func (s *SessionController) Status(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "OK", SessionStatus{Authenticated: middleware.IsAuthenticated(c)})
}

func (s *SessionController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := s.Sessions.Login(c, req.Username, req.Password); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Logged in", SessionStatus{Authenticated: true})
}

func (s *SessionController) Logout(c *gin.Context) {
	s.Sessions.Logout(c)
	utils.SuccessResponse(c, http.StatusOK, "Logged out", SessionStatus{Authenticated: false})
}
