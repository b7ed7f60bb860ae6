package controllers

import (
	"net/http"
	"strings"

	"CafeMaemi/middleware"
	"CafeMaemi/models"
	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

const (
	featuredLimit      = 6
	menuPreviewLimit   = 3
	latestReviewsLimit = 3
	galleryPreview     = 4
)

// PageController serves the localized, read-only views of the mirrors.
type PageController struct {
	Content *services.ContentService
}

func NewPageController(content *services.ContentService) *PageController {
	return &PageController{Content: content}
}

// Root sends the visitor to their language once.
func (p *PageController) Root(c *gin.Context) {
	cookie, _ := c.Cookie(services.LanguageCookieName)
	lang := services.DetectLanguage(cookie, c.GetHeader("Accept-Language"))
	c.Redirect(http.StatusFound, "/"+string(lang))
}

// SwitchLanguage keeps the page and swaps only the language segment.
func (p *PageController) SwitchLanguage(c *gin.Context) {
	lang, _ := services.ParseLanguage(c.Param("code"))

	path := c.DefaultQuery("path", "/")
	// Only local paths, never a scheme-relative or absolute URL.
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		path = "/"
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.LanguageCookieName, string(lang), 365*24*60*60, "/", "", false, false)
	c.Redirect(http.StatusFound, services.SwitchLanguagePath(path, lang))
}

func (p *PageController) render(c *gin.Context, content interface{}) {
	lang := middleware.RequestLanguage(c)
	view := models.PageView{
		Language:  lang,
		Alternate: services.SwitchLanguagePath(c.Request.URL.Path, lang.Other()),
		Content:   content,
	}
	if stale := p.Content.Stale(); len(stale) > 0 {
		view.Stale = stale
	}
	utils.SuccessResponse(c, http.StatusOK, "OK", view)
}

func localizeMenu(items []models.MenuItem, lang models.Language) []models.MenuItemView {
	views := make([]models.MenuItemView, 0, len(items))
	for _, item := range items {
		views = append(views, item.Localize(lang))
	}
	return views
}

func localizeReviews(reviews []models.Review, lang models.Language) []models.ReviewView {
	views := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, r.Localize(lang))
	}
	return views
}

// unknownCategory lists the accepted filters alongside the 400.
func unknownCategory(options []models.CategoryOption) *utils.CustomError {
	return utils.NewCustomError(http.StatusBadRequest, "Unknown category").WithData(gin.H{"categories": options})
}

func (p *PageController) Home(c *gin.Context) {
	lang := middleware.RequestLanguage(c)

	items := models.FilterMenuItems(p.Content.Menu.Items(), "all")
	models.SortMenuItems(items)
	featured := make([]models.MenuItem, 0, featuredLimit)
	for _, item := range items {
		if item.IsFeatured() && len(featured) < featuredLimit {
			featured = append(featured, item)
		}
	}
	// nothing flagged: preview the top of the menu
	if len(featured) == 0 {
		featured = items[:min(len(items), menuPreviewLimit)]
	}

	reviews := p.Content.Reviews.Items()
	latest := reviews
	if len(latest) > latestReviewsLimit {
		latest = latest[:latestReviewsLimit]
	}

	gallery := models.FilterGalleryItems(p.Content.Gallery.Items(), "all")
	if len(gallery) > galleryPreview {
		gallery = gallery[:galleryPreview]
	}

	p.render(c, models.HomePage{
		Featured:      localizeMenu(featured, lang),
		AverageRating: models.AverageRating(reviews),
		ReviewCount:   len(reviews),
		LatestReviews: localizeReviews(latest, lang),
		Gallery:       gallery,
	})
}

func (p *PageController) Menu(c *gin.Context) {
	lang := middleware.RequestLanguage(c)
	options := make([]models.CategoryOption, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		options = append(options, models.CategoryOption{ID: string(cat), Label: cat.Label(lang)})
	}

	category := c.DefaultQuery("category", "all")
	if category != "all" && !models.Category(category).Valid() {
		_ = c.Error(unknownCategory(options))
		return
	}

	items := models.FilterMenuItems(p.Content.Menu.Items(), category)
	models.SortMenuItems(items)

	p.render(c, models.MenuPage{
		Category:   category,
		Categories: options,
		Items:      localizeMenu(items, lang),
	})
}

func (p *PageController) Reviews(c *gin.Context) {
	lang := middleware.RequestLanguage(c)
	reviews := p.Content.Reviews.Items()
	p.render(c, models.ReviewsPage{
		AverageRating: models.AverageRating(reviews),
		Count:         len(reviews),
		Reviews:       localizeReviews(reviews, lang),
	})
}

func (p *PageController) Gallery(c *gin.Context) {
	lang := middleware.RequestLanguage(c)
	options := make([]models.CategoryOption, 0, len(models.GalleryCategories()))
	for _, cat := range models.GalleryCategories() {
		options = append(options, models.CategoryOption{ID: cat, Label: models.GalleryCategoryLabel(cat, lang)})
	}

	category := c.DefaultQuery("category", "all")
	if category != "all" && !models.ValidGalleryCategory(category) {
		_ = c.Error(unknownCategory(options))
		return
	}

	p.render(c, models.GalleryPage{
		Category:   category,
		Categories: options,
		Items:      models.FilterGalleryItems(p.Content.Gallery.Items(), category),
	})
}

func (p *PageController) About(c *gin.Context) {
	lang := middleware.RequestLanguage(c)
	p.render(c, models.AboutPage{
		Restaurant: lang.Pick("Cafe Maemi", "カフェ・マエミ"),
		Cuisine:    lang.Pick("Indian & Nepalese", "インド・ネパール料理"),
		MenuCount:  len(p.Content.Menu.Items()),
	})
}

// LegacyRedirect maps the old unprefixed page paths onto /en.
func (p *PageController) LegacyRedirect(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/"+string(models.DefaultLanguage)+"/"+page)
	}
}
