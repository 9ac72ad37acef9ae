package subtitles

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	byteOrderMark = "\ufeff"
	// minFields is index, start time and end time.
	minFields = 3
)

var (
	timestampRe  = regexp.MustCompile(`\d+\s+\d{2}:\d{2}:\d{2},\d+\s+-->\s+\d{2}:\d{2}:\d{2},\d+`)
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)
)

// placeholders are lines left by subtitle sites in place of dialogue.
var placeholders = map[string]struct{}{
	"-":                       {},
	".":                       {},
	`"идёт перевод"`:          {},
	`"перевод редактируется"`: {},
	"- Не переведено -":       {},
}

// creditStem is the lowercase stem shared by every translator credit line.
const creditStem = "перев"

// creditPatterns match lowercased translator credit lines.
var creditPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^перевод\s`),
	regexp.MustCompile(`^перевод:`),
	regexp.MustCompile(`^переводчики?:`),
	regexp.MustCompile(`^переведено\s`),
	regexp.MustCompile(`^внимание! этот перевод, возможно, ещё не готов`),
	regexp.MustCompile(`^серию перевели и озвучили`),
	regexp.MustCompile(`^координатор перевода:`),
	regexp.MustCompile(`перевод:?\s+-?\s*[a-z]+`),
	regexp.MustCompile(`^над переводом работали:`),
	regexp.MustCompile(`перевод на русский:`),
	regexp.MustCompile(`^автор перевода:`),
}

// CleanLine filters a single subtitle line. It returns "" when the line
// carries no dialogue and ErrMalformedLine when the line has fewer than
// three tab-separated fields.
func CleanLine(line string) (string, error) {
	cleaned := strings.Trim(line, byteOrderMark)
	if cleaned == "" {
		return "", nil
	}
	if strings.Contains(cleaned, "www.") {
		return "", nil
	}

	parts := strings.Split(cleaned, "\t")
	if len(parts) < minFields {
		return "", ErrMalformedLine
	}
	if len(parts) == minFields {
		return "", nil
	}

	dialogue := make([]string, 0, len(parts)-minFields)
	for _, p := range parts[minFields:] {
		if p = strings.TrimSpace(p); p != "" {
			dialogue = append(dialogue, p)
		}
	}
	cleaned = strings.Join(dialogue, " ")

	if strings.Contains(cleaned, "<") {
		cleaned = markupText(cleaned)
	}
	cleaned = timestampRe.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")

	if _, ok := placeholders[cleaned]; ok {
		return "", nil
	}
	if isCredit(cleaned) {
		return "", nil
	}
	return strings.TrimSpace(cleaned), nil
}

// markupText returns the concatenated text nodes of an HTML fragment such as
// "<i>Hello</i>". When the fragment cannot be parsed only the surrounding
// angle brackets are removed.
func markupText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Trim(fragment, "<>")
	}
	return doc.Text()
}

func isCredit(line string) bool {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, creditStem) {
		return false
	}
	for _, re := range creditPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
