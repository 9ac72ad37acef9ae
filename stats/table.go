package stats

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteTable writes a human-readable report of summaries, one block per
// summary, in the order given.
func WriteTable(w io.Writer, summaries []Summary) error {
	p := message.NewPrinter(language.English)
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "\n%d texts, %d groups in %s:\n", s.Documents, s.Groups, s.Name); err != nil {
			return err
		}
		for _, d := range s.Distributions {
			_, err := fmt.Fprintf(w,
				"%s: mean: %.1f | min: %d | 1%%: %d | 5%%: %d | median: %s | 95%%: %d | 99%%: %d | max: %d | sum: %s\n",
				d.Metric, d.Mean, d.Min, d.P1, d.P5,
				strconv.FormatFloat(d.Median, 'f', -1, 64),
				d.P95, d.P99, d.Max, p.Sprintf("%d", d.Sum))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
