// Package language maps a sender address to the language the concierge
// answers in, based on the country calling code of the phone number.
package language

import (
	"sort"
	"strings"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

// DefaultPrefixes is the calling-code table used when none is configured.
var DefaultPrefixes = map[string]domain.Language{
	"39": domain.LangItalian,
	"44": domain.LangEnglish,
	"1":  domain.LangEnglish,
	"49": domain.LangGerman,
	"33": domain.LangFrench,
	"34": domain.LangSpanish,
}

type prefixEntry struct {
	prefix   string
	language domain.Language
}

// Resolver holds the prefix table ordered from most to least specific.
// It is safe for concurrent use.
type Resolver struct {
	entries []prefixEntry
}

func NewResolver(table map[string]domain.Language) *Resolver {
	entries := make([]prefixEntry, 0, len(table))
	for prefix, lang := range table {
		prefix = strings.TrimPrefix(strings.TrimSpace(prefix), "+")
		if prefix == "" || !lang.Valid() {
			continue
		}
		entries = append(entries, prefixEntry{prefix: prefix, language: lang})
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].prefix) != len(entries[j].prefix) {
			return len(entries[i].prefix) > len(entries[j].prefix)
		}
		return entries[i].prefix < entries[j].prefix
	})

	return &Resolver{entries: entries}
}

func Default() *Resolver {
	return NewResolver(DefaultPrefixes)
}

// Resolve returns the language for fromAddress, falling back to English.
func (r *Resolver) Resolve(fromAddress string) domain.Language {
	number := CleanNumber(fromAddress)
	for _, e := range r.entries {
		if strings.HasPrefix(number, e.prefix) {
			return e.language
		}
	}
	return domain.DefaultLanguage
}

// CleanNumber strips a channel scheme such as "whatsapp:" and a leading "+".
func CleanNumber(address string) string {
	number := strings.TrimSpace(address)
	if i := strings.LastIndex(number, ":"); i >= 0 {
		number = number[i+1:]
	}
	number = strings.TrimSpace(number)
	return strings.TrimPrefix(number, "+")
}
