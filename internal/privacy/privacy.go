// Package privacy scrubs personal identifiers (phone numbers, e-mail
// addresses, UUIDs) from free text before it reaches logs or storage.
//
// The same patterns back the HTTP access logger and the message interaction
// metadata, so a number that would be masked in a log line is also masked in
// the database.
package privacy

import (
	"regexp"
	"strings"
)

// Replacement markers used by Redact.
const (
	MarkerID    = "[REDACTED:id]"
	MarkerEmail = "[REDACTED:email]"
	MarkerPhone = "[REDACTED:phone]"
)

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only phone pattern (prevents matching hex characters from UUIDs).
	// Examples matched: "+1 212-555-1212", "212 555 1212", "(212) 555-1212",
	// "+60 12-345 6789".
	phoneRE = regexp.MustCompile(`(?:\+|\b|\()(?:\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
	// Long digit runs inside words ("wa60123456789") have no word boundary
	// for phoneRE to anchor on.
	digitRunRE = regexp.MustCompile(`\d{7,}`)
)

// Redact replaces UUIDs, e-mail addresses and phone numbers in s with typed
// markers.
//
// UUIDs are replaced before phone numbers so the phone pattern cannot match
// the digit/hyphen segments of an ID.
func Redact(s string) string {
	if s == "" {
		return s
	}
	out := uuidRE.ReplaceAllString(s, MarkerID)
	out = emailRE.ReplaceAllString(out, MarkerEmail)
	out = phoneRE.ReplaceAllString(out, MarkerPhone)
	return out
}

// RedactPhones replaces phone-number-like runs in s with repl and leaves
// everything else untouched.
func RedactPhones(s, repl string) string {
	if s == "" {
		return s
	}
	return phoneRE.ReplaceAllString(s, repl)
}

// ScrubNumber removes every verbatim occurrence of number from s, as well as
// its digits-only form, replacing each with repl. Numbers shorter than four
// digits are ignored.
func ScrubNumber(s, number, repl string) string {
	number = strings.TrimSpace(number)
	if s == "" || number == "" {
		return s
	}
	digits := Digits(number)
	if len(digits) < 4 {
		return s
	}
	s = strings.ReplaceAll(s, number, repl)
	return strings.ReplaceAll(s, digits, repl)
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsPhone reports whether s carries number (verbatim or as its
// digits), a phone-number-like run, or seven or more consecutive digits.
// It is meant for identifiers such as map keys, where a substring cannot be
// replaced without changing the identifier.
func ContainsPhone(s, number string) bool {
	if s == "" {
		return false
	}
	if ScrubNumber(s, number, "") != s {
		return true
	}
	return phoneRE.MatchString(s) || digitRunRE.MatchString(s)
}
