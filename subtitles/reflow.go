package subtitles

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const ellipsis = "..."

// Reflow joins wrapped dialogue lines.
//
// A trailing ellipsis continued by a leading ellipsis on the next line is
// removed from both sides, and a line starting with a lowercase letter is
// appended to the previous output line unless that line ends with a period.
// Empty lines are kept so that paragraph structure survives.
func Reflow(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		var prev, next string
		if i > 0 {
			prev = lines[i-1]
		}
		if i < len(lines)-1 {
			next = lines[i+1]
		}

		if strings.HasSuffix(line, ellipsis) && strings.HasPrefix(next, ellipsis) {
			line = strings.TrimSpace(strings.TrimRight(line, "."))
		}
		if strings.HasPrefix(line, ellipsis) && strings.HasSuffix(prev, ellipsis) {
			line = strings.TrimSpace(strings.TrimLeft(line, "."))
		}

		if i > 0 && len(out) > 0 && continuesDialogue(line) {
			last := len(out) - 1
			if !strings.HasSuffix(out[last], ".") {
				if out[last] == "" {
					out[last] = line
				} else {
					out[last] += " " + line
				}
				continue
			}
		}
		out = append(out, line)
	}
	return out
}

// continuesDialogue reports whether line starts with a lowercase letter.
func continuesDialogue(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) && unicode.IsLower(r)
}
