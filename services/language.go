package services

import (
	"regexp"

	"CafeMaemi/models"

	"golang.org/x/text/language"
)

// LanguageCookieName remembers the last language a visitor picked.
const LanguageCookieName = "lang"

var langPrefix = regexp.MustCompile(`^/(en|ja)(/|$)`)

// ParseLanguage accepts exactly the supported URL segments.
func ParseLanguage(segment string) (models.Language, bool) {
	switch models.Language(segment) {
	case models.LanguageEN, models.LanguageJA:
		return models.Language(segment), true
	}
	return models.DefaultLanguage, false
}

// DetectLanguage picks the landing language: a valid preference cookie
// first, then the first Accept-Language tag, where base "ja" selects
// Japanese and anything else English.
func DetectLanguage(cookie, acceptLanguage string) models.Language {
	if lang, ok := ParseLanguage(cookie); ok {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return models.DefaultLanguage
	}
	base, _ := tags[0].Base()
	if ja, _ := language.Japanese.Base(); base == ja {
		return models.LanguageJA
	}
	return models.LanguageEN
}

// SwitchLanguagePath swaps the leading language segment of path for to.
// Paths without one land on the root of the target language.
func SwitchLanguagePath(path string, to models.Language) string {
	if !langPrefix.MatchString(path) {
		return "/" + string(to)
	}
	return langPrefix.ReplaceAllString(path, "/"+string(to)+"$2")
}
