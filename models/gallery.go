package models

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Gallery categories the gallery page can filter on.
const (
	GalleryCategoryFood     = "food"
	GalleryCategoryInterior = "interior"
)

func GalleryCategories() []string {
	return []string{GalleryCategoryFood, GalleryCategoryInterior}
}

func ValidGalleryCategory(category string) bool {
	return category == GalleryCategoryFood || category == GalleryCategoryInterior
}

func GalleryCategoryLabel(category string, lang Language) string {
	switch category {
	case GalleryCategoryFood:
		return lang.Pick("Food", "料理")
	case GalleryCategoryInterior:
		return lang.Pick("Interior", "店内")
	}
	return category
}

type GalleryItem struct {
	ID       string `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Category string `json:"category,omitempty"`
}

func (g GalleryItem) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Src, validation.Required),
		validation.Field(&g.Alt, validation.Length(0, 200)),
	)
}

// FilterGalleryItems returns a new slice with the items of one category;
// "" or "all" keeps everything.
func FilterGalleryItems(items []GalleryItem, category string) []GalleryItem {
	if category == "" || category == "all" {
		return append([]GalleryItem{}, items...)
	}
	out := make([]GalleryItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
