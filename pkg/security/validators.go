// Package security holds the contact form protections: field predicates,
// HTML escaping, sliding-window rate limiting, CSRF tokens and the bounded
// security log.
//
// None of it is a security boundary. Every check runs on data the client
// controls and can be bypassed by a determined caller; the helpers exist to
// give honest users early feedback and to slow down naive scripts.
package security

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	MaxEmailLength   = 254
	MinMessageLength = 10
	MaxMessageLength = 5000
)

// Subjects lists the accepted subject tags in display order.
var Subjects = []string{"devis", "service", "suivi", "autre"}

// whitespace is the class body of every space and line terminator the form
// treats as blank, Unicode spaces included. RE2's \s covers ASCII only.
const whitespace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ` + whitespace + `\-']{2,100}$`)
	emailRegex = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
	phoneRegex = regexp.MustCompile(`^(\+226|00226)?[0-9]{8,9}$`)
)

// dangerousPatterns is a denylist of injection indicators. It catches the
// obvious payloads only; passing it says nothing about the safety of a value.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+[` + whitespace + `]*=`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
	regexp.MustCompile(`(?i)data:text/html`),
}

// IsName accepts 2 to 100 letters (accented included), spaces, hyphens and
// apostrophes after trimming.
func IsName(name string) bool {
	return nameRegex.MatchString(Trim(name))
}

// IsEmail checks the local@domain.tld shape and a length of at most
// MaxEmailLength characters.
func IsEmail(email string) bool {
	return emailRegex.MatchString(email) && utf8.RuneCountInString(email) <= MaxEmailLength
}

// IsPhone accepts an 8 or 9 digit local number, optionally prefixed with
// +226 or 00226, once whitespace is removed. The field is optional so the
// empty string is valid.
func IsPhone(phone string) bool {
	if phone == "" {
		return true
	}
	stripped := strings.Map(func(r rune) rune {
		if IsWhitespace(r) {
			return -1
		}
		return r
	}, phone)
	return phoneRegex.MatchString(stripped)
}

func IsSubject(subject string) bool {
	return slices.Contains(Subjects, subject)
}

// IsMessage requires 10 to 5000 characters after trimming and rejects any
// value matching one of the injection indicators.
func IsMessage(message string) bool {
	clean := Trim(message)
	n := utf8.RuneCountInString(clean)
	if n < MinMessageLength || n > MaxMessageLength {
		return false
	}
	return MatchDangerous(clean) == ""
}

// MatchDangerous returns the first injection indicator found in s, or "".
func MatchDangerous(s string) string {
	for _, pattern := range dangerousPatterns {
		if loc := pattern.FindString(s); loc != "" {
			return loc
		}
	}
	return ""
}

// IsWhitespace reports whether r is one of the blanks in the whitespace class.
func IsWhitespace(r rune) bool {
	switch {
	case r >= '\t' && r <= '\r', r == ' ':
		return true
	case r >= '\u2000' && r <= '\u200a':
		return true
	}
	switch r {
	case '\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return false
}

// Trim removes leading and trailing whitespace as IsWhitespace defines it.
func Trim(s string) string {
	return strings.TrimFunc(s, IsWhitespace)
}
