package domain

import "strings"

// Language is one of the conversation languages the concierge can answer in.
type Language string

const (
	LangItalian Language = "it"
	LangEnglish Language = "en"
	LangGerman  Language = "de"
	LangFrench  Language = "fr"
	LangSpanish Language = "es"
)

// DefaultLanguage is used whenever nothing more specific is known.
const DefaultLanguage = LangEnglish

var supportedLanguages = []Language{LangItalian, LangEnglish, LangGerman, LangFrench, LangSpanish}

func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

func (l Language) Valid() bool {
	for _, s := range supportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// ParseLanguage accepts codes like "IT" or " en " and reports whether the
// result is a supported language.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}
