// Package templates renders restaurant message templates and holds the
// localized system replies the concierge sends on its own.
package templates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

// Placeholder names supported in restaurant templates.
const (
	FieldFirstName      = "firstName"
	FieldRestaurantName = "restaurantName"
	FieldMenuURL        = "menuUrl"
	FieldWifiInfo       = "wifiInfo"
	FieldReviewLink     = "reviewLink"
)

var SupportedFields = []string{
	FieldFirstName,
	FieldRestaurantName,
	FieldMenuURL,
	FieldWifiInfo,
	FieldReviewLink,
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Render substitutes every {{field}} with its value. Placeholders without a
// non-empty value are left untouched so that incomplete restaurant data is
// visible in the delivered text.
func Render(tmpl string, fields map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := fields[name]; ok && v != "" {
			return v
		}
		return match
	})
}

// Unresolved lists the placeholders Render would leave in place.
func Unresolved(tmpl string, fields map[string]string) []string {
	var missing []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		if v, ok := fields[name]; ok && v != "" {
			continue
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
	}
	return missing
}

// Select picks the template for lang, falling back to English when it is
// absent or blank. It returns the language actually used.
func Select(set domain.Templates, lang domain.Language) (string, domain.Language, error) {
	if tmpl := set[lang]; strings.TrimSpace(tmpl) != "" {
		return tmpl, lang, nil
	}
	if tmpl := set[domain.DefaultLanguage]; strings.TrimSpace(tmpl) != "" {
		return tmpl, domain.DefaultLanguage, nil
	}
	return "", "", fmt.Errorf("%w: no %q or %q template", domain.ErrTemplateMissing, lang, domain.DefaultLanguage)
}
