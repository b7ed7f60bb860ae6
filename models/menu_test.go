package models

import (
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestSortMenuItems(t *testing.T) {
	items := []MenuItem{
		{NameEn: "naan"},
		{NameEn: "Mango Lassi", SortOrder: ptr(int64(2))},
		{NameEn: "Butter Chicken", SortOrder: ptr(int64(1))},
		{NameEn: "Aloo Gobi"},
		{NameEn: "Cheese Naan", SortOrder: ptr(int64(2))},
	}
	SortMenuItems(items)

	want := []string{"Butter Chicken", "Cheese Naan", "Mango Lassi", "Aloo Gobi", "naan"}
	for i, name := range want {
		if items[i].NameEn != name {
			t.Errorf("position %d = %s, want %s", i, items[i].NameEn, name)
		}
	}
}

func TestFilterMenuItems(t *testing.T) {
	items := []MenuItem{
		{ID: "1", Category: CategoryCurry},
		{ID: "2", Category: CategoryDrinks},
		{ID: "3", Category: CategoryCurry},
	}

	tests := []struct {
		category string
		want     int
	}{
		{"", 3},
		{"all", 3},
		{"curry", 2},
		{"drinks", 1},
		{"dessert", 0},
	}
	for _, tt := range tests {
		if got := FilterMenuItems(items, tt.category); len(got) != tt.want {
			t.Errorf("FilterMenuItems(%q) returned %d items, want %d", tt.category, len(got), tt.want)
		}
	}

	all := FilterMenuItems(items, "all")
	all[0].ID = "changed"
	if items[0].ID != "1" {
		t.Error("FilterMenuItems shares its result with the input")
	}
}

func TestMenuItemValidate(t *testing.T) {
	valid := MenuItem{NameEn: "Momo", NameJa: "モモ", Price: 700, Category: CategoryNoodlesMomo}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, legacy := range []Category{CategoryTandoori, CategoryRice, CategoryNaan} {
		item := valid
		item.Category = legacy
		if err := item.Validate(); err != nil {
			t.Errorf("legacy category %s rejected: %v", legacy, err)
		}
	}

	tests := []struct {
		name   string
		mutate func(*MenuItem)
	}{
		{"missing english name", func(m *MenuItem) { m.NameEn = "" }},
		{"negative price", func(m *MenuItem) { m.Price = -10 }},
		{"negative large price", func(m *MenuItem) { m.PriceLarge = ptr(int64(-1)) }},
		{"unknown category", func(m *MenuItem) { m.Category = "pizza" }},
		{"spicy level above five", func(m *MenuItem) { m.SpicyLevel = ptr(int64(6)) }},
	}
	for _, tt := range tests {
		item := valid
		tt.mutate(&item)
		if err := item.Validate(); err == nil {
			t.Errorf("%s: Validate() accepted %+v", tt.name, item)
		}
	}
}

func TestMenuItemLocalize(t *testing.T) {
	item := MenuItem{
		ID: "m1", NameEn: "Butter Chicken", NameJa: "バターチキン",
		DescriptionEn: "Creamy", DescriptionJa: "クリーミー",
		Price: 1200, Category: CategoryCurry, Featured: ptr(true), SpicyLevel: ptr(int64(2)),
	}

	ja := item.Localize(LanguageJA)
	if ja.Name != "バターチキン" || ja.Description != "クリーミー" || ja.CategoryLabel != "カレー" {
		t.Errorf("Localize(ja) = %+v", ja)
	}
	en := item.Localize(LanguageEN)
	if en.Name != "Butter Chicken" || en.CategoryLabel != "Curry" || !en.Featured || en.SpicyLevel != 2 {
		t.Errorf("Localize(en) = %+v", en)
	}
}
