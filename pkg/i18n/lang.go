package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength keeps oversized Accept-Language headers from being parsed.
const maxAcceptLanguageLength = 4096

// Matcher picks the best supported language for an Accept-Language header.
// The first supported language is the default.
type Matcher struct {
	names   []string
	matcher language.Matcher
}

// NewMatcher builds a Matcher. At least one language is required and every
// entry must be a valid BCP 47 tag.
func NewMatcher(supported ...string) (*Matcher, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("%w: empty language list", ErrLanguageNotSupported)
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrLanguageNotSupported, s, err)
		}
		tags = append(tags, tag)
	}

	return &Matcher{
		names:   supported,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Default returns the first supported language.
func (m *Matcher) Default() string {
	return m.names[0]
}

// Match returns the supported language closest to the header preferences,
// or the default when nothing matches or the header is unusable.
func (m *Matcher) Match(acceptLanguage string) string {
	if acceptLanguage == "" || len(acceptLanguage) > maxAcceptLanguageLength {
		return m.Default()
	}

	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return m.Default()
	}

	_, idx, conf := m.matcher.Match(prefs...)
	if conf == language.No {
		return m.Default()
	}
	return m.names[idx]
}
