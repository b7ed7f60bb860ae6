package models

import (
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Category tags a menu item with its section on the menu page.
type Category string

const (
	CategorySets        Category = "sets"
	CategoryCurry       Category = "curry"
	CategoryNaanRice    Category = "naan_rice"
	CategoryNoodlesMomo Category = "noodles_momo"
	CategorySides       Category = "sides"
	CategoryDrinks      Category = "drinks"
	CategoryDessert     Category = "dessert"
	CategoryTandoori    Category = "tandoori"
	CategoryRice        Category = "rice"
	CategoryNaan        Category = "naan"
)

type categoryLabel struct {
	En string
	Ja string
}

var categoryLabels = map[Category]categoryLabel{
	CategorySets:        {"Sets", "セット"},
	CategoryCurry:       {"Curry", "カレー"},
	CategoryNaanRice:    {"Naan/Rice", "ナン・ライス"},
	CategoryNoodlesMomo: {"Noodles & MoMo", "麺類・モモ"},
	CategorySides:       {"Sides", "サイドメニュー"},
	CategoryDrinks:      {"Drinks", "ドリンク"},
	CategoryDessert:     {"Dessert", "デザート"},
	CategoryTandoori:    {"Tandoori", "タンドリー"},
	CategoryRice:        {"Rice", "ライス"},
	CategoryNaan:        {"Naan", "ナン"},
}

// Categories returns the menu sections in display order.
func Categories() []Category {
	return []Category{
		CategorySets, CategoryCurry, CategoryNaanRice, CategoryNoodlesMomo,
		CategorySides, CategoryDrinks, CategoryDessert, CategoryTandoori, CategoryRice, CategoryNaan,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label(lang Language) string {
	l, ok := categoryLabels[c]
	if !ok {
		return string(c)
	}
	return lang.Pick(l.En, l.Ja)
}

// MenuItem is one dish or drink, as stored in the menu collection.
type MenuItem struct {
	ID            string   `json:"id"`
	NameEn        string   `json:"nameEn"`
	NameJa        string   `json:"nameJa"`
	DescriptionEn string   `json:"descriptionEn"`
	DescriptionJa string   `json:"descriptionJa"`
	Price         int64    `json:"price"`
	PriceLarge    *int64   `json:"priceLarge,omitempty"`
	Category      Category `json:"category"`
	Image         string   `json:"image,omitempty"`
	Featured      *bool    `json:"featured,omitempty"`
	SortOrder     *int64   `json:"sortOrder,omitempty"`
	SpicyLevel    *int64   `json:"spicyLevel,omitempty"`
}

func (m MenuItem) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.NameEn, validation.Required, validation.Length(1, 120)),
		validation.Field(&m.NameJa, validation.Required, validation.Length(1, 120)),
		validation.Field(&m.Price, validation.Min(int64(0))),
		validation.Field(&m.PriceLarge, validation.Min(int64(0))),
		validation.Field(&m.Category, validation.Required, validation.By(func(value interface{}) error {
			if c, _ := value.(Category); !c.Valid() {
				return validation.NewError("validation_menu_category", "is not a known category")
			}
			return nil
		})),
		validation.Field(&m.SpicyLevel, validation.Min(int64(0)), validation.Max(int64(5))),
	)
}

func (m MenuItem) IsFeatured() bool {
	return m.Featured != nil && *m.Featured
}

// MenuItemView is a menu item rendered for one language.
type MenuItemView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	PriceLarge    *int64   `json:"priceLarge,omitempty"`
	Category      Category `json:"category"`
	CategoryLabel string   `json:"categoryLabel"`
	Image         string   `json:"image,omitempty"`
	Featured      bool     `json:"featured"`
	SpicyLevel    int64    `json:"spicyLevel,omitempty"`
}

func (m MenuItem) Localize(lang Language) MenuItemView {
	v := MenuItemView{
		ID:            m.ID,
		Name:          lang.Pick(m.NameEn, m.NameJa),
		Description:   lang.Pick(m.DescriptionEn, m.DescriptionJa),
		Price:         m.Price,
		PriceLarge:    m.PriceLarge,
		Category:      m.Category,
		CategoryLabel: m.Category.Label(lang),
		Image:         m.Image,
		Featured:      m.IsFeatured(),
	}
	if m.SpicyLevel != nil {
		v.SpicyLevel = *m.SpicyLevel
	}
	return v
}

// SortMenuItems orders items by sortOrder, unordered items last, then by English name.
func SortMenuItems(items []MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].SortOrder, items[j].SortOrder
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return strings.ToLower(items[i].NameEn) < strings.ToLower(items[j].NameEn)
	})
}

// FilterMenuItems returns a new slice with the items of one category;
// "" or "all" keeps everything.
func FilterMenuItems(items []MenuItem, category string) []MenuItem {
	if category == "" || category == "all" {
		return append([]MenuItem(nil), items...)
	}
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if string(it.Category) == category {
			out = append(out, it)
		}
	}
	return out
}
