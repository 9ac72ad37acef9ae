// Package subtitles removes transcription artifacts from tab-separated
// subtitle tracks and reflows dialogue lines that were wrapped mid-sentence.
//
// Each input line is expected in the form
//
//	index<TAB>start<TAB>end<TAB>dialogue...
//
// Cleaning runs in two passes. CleanLine filters every line independently:
// timing fields, embedded markup, watermark and translator credit lines are
// removed. Reflow then walks the filtered lines in order and joins wrapped
// continuations.
package subtitles

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedLine indicates a line with fewer than three tab-separated
// fields. Such a document is not a recognized subtitle track.
var ErrMalformedLine = errors.New("subtitles: malformed line")

// Clean runs both passes over a subtitle document and returns the cleaned
// text with lines joined by "\n".
func Clean(text string) (string, error) {
	raw := splitLines(text)
	lines := make([]string, len(raw))
	for i, line := range raw {
		cleaned, err := CleanLine(line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i+1, err)
		}
		lines[i] = cleaned
	}
	return strings.Join(Reflow(lines), "\n"), nil
}

// splitLines splits on the same line boundaries as a universal-newline
// reader: \n, \r\n, \r, \v, \f, FS, GS, RS, NEL, LS and PS.
// A trailing boundary does not produce an empty final line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch r {
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				size++
			}
			start = i + size
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, text[start:i])
			start = i + size
		}
		i += size
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
