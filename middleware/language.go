package middleware

import (
	"net/http"

	"CafeMaemi/models"
	"CafeMaemi/services"

	"github.com/gin-gonic/gin"
)

const langKey = "lang"

// Language validates the :lang segment. Anything but en or ja goes to /en.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, ok := services.ParseLanguage(c.Param("lang"))
		if !ok {
			c.Redirect(http.StatusFound, "/"+string(models.DefaultLanguage))
			c.Abort()
			return
		}
		c.Set(langKey, lang)
		c.Next()
	}
}

// RequestLanguage returns the language of the request: the :lang segment
// when routed under one, otherwise the preference cookie or Accept-Language.
func RequestLanguage(c *gin.Context) models.Language {
	if v, ok := c.Get(langKey); ok {
		if lang, ok := v.(models.Language); ok {
			return lang
		}
	}
	cookie, _ := c.Cookie(services.LanguageCookieName)
	return services.DetectLanguage(cookie, c.GetHeader("Accept-Language"))
}
