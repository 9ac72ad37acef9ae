// Package normalize canonicalizes whitespace and newlines of extracted
// documents before they are split and written.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// indentRe matches horizontal whitespace at the start of a line.
	indentRe = regexp.MustCompile(`\n[ \t]+`)
	// blankRunRe matches two or more consecutive newlines.
	blankRunRe = regexp.MustCompile(`\n{2,}`)
)

// Text returns the canonical form of a raw document.
//
// The document is trimmed, CRLF line endings become LF, lines are de-indented,
// blank-line runs are capped at one blank line and exactly one trailing
// newline is appended. The boolean is false when nothing is left after
// trimming; such documents are dropped by the caller.
func Text(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}
	// "\r\r\n" only becomes LF after a second replacement.
	for strings.Contains(text, "\r\n") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	text = indentRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return text + "\n", true
}
