package templates

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Category string

const (
	CategoryWelcome Category = "welcome"
	CategoryReview  Category = "review"
)

type lintRule struct {
	minLength int
	maxLength int
	required  []string
}

var lintRules = map[Category]lintRule{
	CategoryWelcome: {minLength: 50, maxLength: 500, required: []string{FieldMenuURL, FieldWifiInfo}},
	CategoryReview:  {minLength: 30, maxLength: 300, required: []string{FieldReviewLink}},
}

var blockedWords = []string{
	"credenziali",
	"bonifico",
	"pagamento",
	"carta di credito",
	"bank",
	"bitcoin",
	"crypto",
	"telegram://",
}

// Lint returns human-readable warnings for a template. An empty result means
// the template looks fine. Lint never blocks rendering.
func Lint(category Category, tmpl string) []string {
	rule, ok := lintRules[category]
	if !ok {
		return []string{fmt.Sprintf("unknown template category %q", category)}
	}

	var warnings []string

	length := utf8.RuneCountInString(tmpl)
	if length < rule.minLength {
		warnings = append(warnings, fmt.Sprintf("template is too short (minimum %d characters)", rule.minLength))
	}
	if length > rule.maxLength {
		warnings = append(warnings, fmt.Sprintf("template is too long (maximum %d characters)", rule.maxLength))
	}

	present := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		if !present[name] && !isSupportedField(name) {
			warnings = append(warnings, fmt.Sprintf("unknown placeholder {{%s}}", name))
		}
		present[name] = true
	}
	for _, field := range rule.required {
		if !present[field] {
			warnings = append(warnings, fmt.Sprintf("template must contain {{%s}}", field))
		}
	}

	lower := strings.ToLower(tmpl)
	for _, word := range blockedWords {
		if strings.Contains(lower, word) {
			warnings = append(warnings, fmt.Sprintf("template contains a blocked word: %s", word))
		}
	}

	return warnings
}

func isSupportedField(name string) bool {
	for _, f := range SupportedFields {
		if f == name {
			return true
		}
	}
	return false
}
