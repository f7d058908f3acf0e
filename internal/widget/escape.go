package widget

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five markup-significant characters so user or
// backend text can be interpolated into HTML.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// SanitizeTerminal removes escape sequences and control characters except
// newline and tab, so text cannot restyle or move the terminal cursor.
func SanitizeTerminal(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = ansi.Strip(s)

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
