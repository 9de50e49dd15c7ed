package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLint_CleanWelcomeTemplate(t *testing.T) {
	tmpl := "Ciao {{firstName}}! Benvenuto da {{restaurantName}}. Menu: {{menuUrl}} - WiFi: {{wifiInfo}}"

	assert.Empty(t, Lint(CategoryWelcome, tmpl))
}

func TestLint_ReportsProblems(t *testing.T) {
	warnings := Lint(CategoryReview, "Pay by bitcoin {{tip}}")

	joined := strings.Join(warnings, "\n")
	assert.Contains(t, joined, "too short")
	assert.Contains(t, joined, "{{reviewLink}}")
	assert.Contains(t, joined, "unknown placeholder {{tip}}")
	assert.Contains(t, joined, "bitcoin")
}

func TestLint_TooLong(t *testing.T) {
	tmpl := strings.Repeat("a", 301) + "{{reviewLink}}"

	warnings := Lint(CategoryReview, tmpl)
	assert.Equal(t, []string{"template is too long (maximum 300 characters)"}, warnings)
}

func TestLint_UnknownCategory(t *testing.T) {
	assert.Len(t, Lint(Category("promo"), "anything"), 1)
}
