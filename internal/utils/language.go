package utils

import (
	"strings"

	"golang.org/x/text/language"
)

// maxLanguageTagLen matches the width of the language columns.
const maxLanguageTagLen = 16

// NormalizeLanguage canonicalizes a BCP 47 language tag ("EN" -> "en",
// "ms-my" -> "ms-MY"). Empty, ill-formed, or over-long tags yield def.
func NormalizeLanguage(tag, def string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return def
	}
	t, err := language.Parse(tag)
	if err != nil {
		return def
	}
	out := t.String()
	if len(out) > maxLanguageTagLen {
		return def
	}
	return out
}
