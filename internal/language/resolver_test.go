package language

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

func TestResolve_KnownPrefixes(t *testing.T) {
	r := Default()

	tests := []struct {
		from string
		want domain.Language
	}{
		{"whatsapp:+393331234567", domain.LangItalian},
		{"+393471112233", domain.LangItalian},
		{"whatsapp:+447700900123", domain.LangEnglish},
		{"+15551234567", domain.LangEnglish},
		{"whatsapp:+4915112345678", domain.LangGerman},
		{"+33612345678", domain.LangFrench},
		{"34612345678", domain.LangSpanish},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.from))
		})
	}
}

func TestResolve_UnmappedPrefixFallsBackToEnglish(t *testing.T) {
	r := Default()

	assert.Equal(t, domain.LangEnglish, r.Resolve("whatsapp:+81312345678"))
	assert.Equal(t, domain.LangEnglish, r.Resolve(""))
	assert.Equal(t, domain.LangEnglish, r.Resolve("whatsapp:"))
}

func TestResolve_LongestPrefixWins(t *testing.T) {
	r := NewResolver(map[string]domain.Language{
		"3":   domain.LangFrench,
		"39":  domain.LangItalian,
		"390": domain.LangGerman,
	})

	assert.Equal(t, domain.LangGerman, r.Resolve("+390612345"))
	assert.Equal(t, domain.LangItalian, r.Resolve("+391234567"))
	assert.Equal(t, domain.LangFrench, r.Resolve("+3312345"))
}

func TestNewResolver_SkipsInvalidEntries(t *testing.T) {
	r := NewResolver(map[string]domain.Language{
		"":    domain.LangItalian,
		"+81": domain.Language("ja"),
		"+39": domain.LangItalian,
	})

	assert.Len(t, r.entries, 1)
	assert.Equal(t, "39", r.entries[0].prefix)
	assert.Equal(t, domain.LangEnglish, r.Resolve("+81312345678"))
}

func TestCleanNumber(t *testing.T) {
	assert.Equal(t, "393331234567", CleanNumber("whatsapp:+393331234567"))
	assert.Equal(t, "15551234567", CleanNumber(" +15551234567 "))
	assert.Equal(t, "4477", CleanNumber("sms:4477"))
}
