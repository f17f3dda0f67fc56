package security

import "strings"

var (
	// textNodeEscaper mirrors how a text node serializes back to markup.
	textNodeEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\u00a0", "&nbsp;",
	)
	entityEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
)

// Sanitize escapes s for insertion as HTML text. The value goes through the
// text-node serialization first and the entity table second, so `&`, `<` and
// `>` come out escaped twice ("<" becomes "&amp;lt;"). Sanitize is not
// idempotent: a second call escapes again. Storage and display code rely on
// that exact output, do not collapse the two stages.
func Sanitize(s string) string {
	return entityEscaper.Replace(textNodeEscaper.Replace(s))
}

// SanitizeInput returns "" for anything that is not a string.
func SanitizeInput(input any) string {
	s, ok := input.(string)
	if !ok {
		return ""
	}
	return Sanitize(s)
}
