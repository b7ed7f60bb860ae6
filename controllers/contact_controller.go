package controllers

import (
	"net/http"

	"CafeMaemi/middleware"
	"CafeMaemi/models"
	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	Content *services.ContentService
}

func NewContactController(content *services.ContentService) *ContactController {
	return &ContactController{Content: content}
}

// ContactForm accepts both JSON and form posts.
type ContactForm struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// ContactResult echoes the submitted fields back so the form stays filled on failure.
type ContactResult struct {
	ID     string      `json:"id,omitempty"`
	Form   ContactForm `json:"form"`
	Errors interface{} `json:"errors,omitempty"`
}

func (cc *ContactController) Submit(c *gin.Context) {
	lang := middleware.RequestLanguage(c)

	var form ContactForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorResponseWithData(c, http.StatusBadRequest, services.ContactInvalidMessage(lang), ContactResult{Form: form})
		return
	}

	msg := models.ContactMessage{Name: form.Name, Email: form.Email, Message: form.Message}.Trim()
	if err := msg.Validate(); err != nil {
		utils.ErrorResponseWithData(c, http.StatusBadRequest, services.ContactInvalidMessage(lang), ContactResult{Form: form, Errors: err})
		return
	}

	id, err := cc.Content.AddMessage(c.Request.Context(), msg)
	if err != nil {
		cc.Content.Logger.Error("contact message not saved", "error", err)
		utils.ErrorResponseWithData(c, http.StatusInternalServerError, services.ContactErrorMessage(lang), ContactResult{Form: form})
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, services.ContactSuccessMessage(lang), ContactResult{ID: id})
}
