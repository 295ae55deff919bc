package draft

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer normalises free text typed into the intake form before it is
// substituted into the pleading. By default it only normalises line endings,
// turns tabs into spaces and drops control characters. StripMarkup also
// removes HTML tags, including anything shaped like a tag ("<a@b.c>").
type Sanitizer struct {
	policy *bluemonday.Policy
}

// SanitizerOption is a functional option for Sanitizer
type SanitizerOption func(*Sanitizer)

// StripMarkup removes HTML markup with bluemonday's strict policy. Entities
// are unescaped afterwards so that "M/s A & B" survives unchanged.
func StripMarkup() SanitizerOption {
	return func(s *Sanitizer) {
		s.policy = bluemonday.StrictPolicy()
	}
}

// NewSanitizer creates a sanitizer
func NewSanitizer(opts ...SanitizerOption) *Sanitizer {
	s := &Sanitizer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean returns the sanitized, trimmed form of v
func (s *Sanitizer) Clean(v string) string {
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\r", "\n")
	v = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			return -1
		}
		return r
	}, v)

	if s != nil && s.policy != nil {
		v = html.UnescapeString(s.policy.Sanitize(v))
	}
	return strings.TrimSpace(v)
}
