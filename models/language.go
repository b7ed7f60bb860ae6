package models

// Language is a supported site language, written as its URL segment.
type Language string

const (
	LanguageEN Language = "en"
	LanguageJA Language = "ja"
)

// DefaultLanguage is used when no valid language can be resolved.
const DefaultLanguage = LanguageEN

// SupportedLanguages lists the URL segments in preference order.
var SupportedLanguages = []Language{LanguageEN, LanguageJA}

// Pick returns en or ja depending on the language.
func (l Language) Pick(en, ja string) string {
	if l == LanguageJA {
		return ja
	}
	return en
}

// Other returns the language the switcher toggles to.
func (l Language) Other() Language {
	if l == LanguageJA {
		return LanguageEN
	}
	return LanguageJA
}

// Name is the English name used in prompts.
func (l Language) Name() string {
	return l.Pick("English", "Japanese")
}
