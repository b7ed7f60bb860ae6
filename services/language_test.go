package services

import (
	"testing"

	"CafeMaemi/models"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		segment string
		want    models.Language
		ok      bool
	}{
		{"en", models.LanguageEN, true},
		{"ja", models.LanguageJA, true},
		{"EN", models.DefaultLanguage, false},
		{"fr", models.DefaultLanguage, false},
		{"", models.DefaultLanguage, false},
		{"admin", models.DefaultLanguage, false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.segment)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLanguage(%q) = (%s, %v), want (%s, %v)", tt.segment, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   models.Language
	}{
		{"japanese browser", "", "ja-JP,ja;q=0.9,en;q=0.8", models.LanguageJA},
		{"bare ja", "", "ja", models.LanguageJA},
		{"english browser", "", "en-US,en;q=0.9", models.LanguageEN},
		{"other language", "", "fr-FR", models.LanguageEN},
		{"japanese second", "", "en-GB,ja;q=0.5", models.LanguageEN},
		{"no header", "", "", models.LanguageEN},
		{"cookie wins", "en", "ja-JP", models.LanguageEN},
		{"invalid cookie ignored", "de", "ja-JP", models.LanguageJA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.cookie, tt.accept); got != tt.want {
				t.Errorf("DetectLanguage(%q, %q) = %s, want %s", tt.cookie, tt.accept, got, tt.want)
			}
		})
	}
}

func TestSwitchLanguagePath(t *testing.T) {
	tests := []struct {
		path string
		to   models.Language
		want string
	}{
		{"/en/menu", models.LanguageJA, "/ja/menu"},
		{"/ja/menu", models.LanguageEN, "/en/menu"},
		{"/en", models.LanguageJA, "/ja"},
		{"/ja/reviews/", models.LanguageEN, "/en/reviews/"},
		{"/en/menu?category=curry", models.LanguageJA, "/ja/menu?category=curry"},
		{"/english/menu", models.LanguageJA, "/ja"},
		{"/", models.LanguageEN, "/en"},
		{"", models.LanguageJA, "/ja"},
	}
	for _, tt := range tests {
		if got := SwitchLanguagePath(tt.path, tt.to); got != tt.want {
			t.Errorf("SwitchLanguagePath(%q, %s) = %q, want %q", tt.path, tt.to, got, tt.want)
		}
	}
}
