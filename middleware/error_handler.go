package middleware

import (
	"errors"
	"net/http"

	"CafeMaemi/services"
	"CafeMaemi/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware Middleware untuk menangani error secara global
func ErrorHandlerMiddleware(maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Cek apakah ada error di context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		// Cek apakah error adalah CustomError
		var customErr *utils.CustomError
		if errors.As(err, &customErr) {
			utils.ErrorResponseWithData(c, customErr.StatusCode, customErr.Message, customErr.Data)
			return
		}

		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			utils.ErrorResponseWithData(c, http.StatusBadRequest, "Validation failed", fieldErrs)
			return
		}

		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		var uploadErr *services.UploadError
		if errors.As(err, &uploadErr) {
			lang := RequestLanguage(c)
			switch {
			case errors.Is(err, services.ErrAssetTooLarge):
				utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, services.UploadTooLargeMessage(lang, maxUploadBytes))
			case errors.Is(err, services.ErrInvalidInline), errors.Is(err, services.ErrEmptyAsset):
				utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			default:
				utils.ErrorResponse(c, http.StatusBadGateway, services.UploadFailedMessage(lang))
			}
			return
		}

		var storeErr *services.StoreError
		if errors.As(err, &storeErr) {
			switch {
			case errors.Is(err, services.ErrNotFound):
				utils.ErrorResponse(c, http.StatusNotFound, "Document not found")
			case errors.Is(err, services.ErrPermissionDenied):
				utils.ErrorResponse(c, http.StatusForbidden, "Permission denied")
			case errors.Is(err, services.ErrAlreadyExists):
				utils.ErrorResponse(c, http.StatusConflict, "Document already exists")
			default:
				utils.ErrorResponse(c, http.StatusInternalServerError, "Internal Server Error")
			}
			return
		}

		// Jika bukan CustomError, anggap sebagai Internal Server Error
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
