// Package trigger extracts the restaurant trigger name from an inbound chat
// message of the form "<greeting> <restaurant name>".
package trigger

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

// Greeting is a token that opens a valid request, tagged with its language.
type Greeting struct {
	Token    string
	Language domain.Language
}

var DefaultGreetings = []Greeting{
	{Token: "ciao", Language: domain.LangItalian},
	{Token: "hello", Language: domain.LangEnglish},
	{Token: "hallo", Language: domain.LangGerman},
	{Token: "bonjour", Language: domain.LangFrench},
	{Token: "hola", Language: domain.LangSpanish},
}

// Match is a successfully parsed message. TriggerName is not normalized.
type Match struct {
	Greeting    string
	Language    domain.Language
	TriggerName string
}

type Matcher struct {
	greetings []Greeting
	// hints holds the first configured token per language, title-cased for
	// use in replies.
	hints    map[domain.Language]string
	fallback string
}

func NewMatcher(greetings []Greeting) *Matcher {
	gs := make([]Greeting, 0, len(greetings))
	for _, g := range greetings {
		g.Token = strings.TrimSpace(g.Token)
		if g.Token == "" {
			continue
		}
		gs = append(gs, g)
	}

	title := cases.Title(language.Und)
	hints := make(map[domain.Language]string)
	fallback := ""
	for _, g := range gs {
		if _, ok := hints[g.Language]; !ok {
			hints[g.Language] = title.String(g.Token)
		}
		if fallback == "" {
			fallback = hints[g.Language]
		}
	}

	// "hallo" must be tried before a configured "hal", and so on.
	sort.SliceStable(gs, func(i, j int) bool {
		return utf8.RuneCountInString(gs[i].Token) > utf8.RuneCountInString(gs[j].Token)
	})

	return &Matcher{greetings: gs, hints: hints, fallback: fallback}
}

// GreetingFor returns the greeting a user writing in lang should send. It
// falls back to the default language's greeting, then to any configured one.
func (m *Matcher) GreetingFor(lang domain.Language) string {
	if g, ok := m.hints[lang]; ok {
		return g
	}
	if g, ok := m.hints[domain.DefaultLanguage]; ok {
		return g
	}
	return m.fallback
}

func Default() *Matcher {
	return NewMatcher(DefaultGreetings)
}

// Match checks that rawBody starts with a greeting token, case-insensitively,
// and returns the rest of the message as the candidate trigger name.
func (m *Matcher) Match(rawBody string) (Match, error) {
	body := strings.TrimSpace(rawBody)

	for _, g := range m.greetings {
		rest, ok := cutGreeting(body, g.Token)
		if !ok {
			continue
		}

		name := strings.TrimSpace(strings.TrimLeftFunc(rest, isSeparator))
		if name == "" {
			return Match{}, domain.ErrNoGreeting
		}

		return Match{
			Greeting:    g.Token,
			Language:    g.Language,
			TriggerName: name,
		}, nil
	}

	return Match{}, domain.ErrNoGreeting
}

// cutGreeting reports whether body starts with token as a whole word.
func cutGreeting(body, token string) (string, bool) {
	n := utf8.RuneCountInString(token)

	end := 0
	for i := 0; i < n; i++ {
		if end >= len(body) {
			return "", false
		}
		_, size := utf8.DecodeRuneInString(body[end:])
		end += size
	}

	if !strings.EqualFold(body[:end], token) {
		return "", false
	}

	rest := body[end:]
	if rest != "" {
		next, _ := utf8.DecodeRuneInString(rest)
		if !isSeparator(next) {
			return "", false
		}
	}

	return rest, true
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

var folder = cases.Fold()

// Normalize is the canonical form trigger names are stored and looked up in:
// case-folded, trimmed, inner whitespace collapsed.
func Normalize(name string) string {
	return folder.String(strings.Join(strings.Fields(name), " "))
}

// ParseGreetings reads a table of the form "ciao:it,hello:en".
func ParseGreetings(table string) ([]Greeting, error) {
	var out []Greeting
	for _, item := range strings.Split(table, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		token, code, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("greeting %q must be in token:language form", item)
		}

		lang, valid := domain.ParseLanguage(code)
		if !valid {
			return nil, fmt.Errorf("greeting %q has unsupported language %q", item, code)
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("greeting %q has an empty token", item)
		}

		out = append(out, Greeting{Token: token, Language: lang})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no greetings configured")
	}

	return out, nil
}
