// Package stats aggregates per-document size statistics by split.
//
// All values are retained until the corpus is finished, so percentiles are
// exact rather than streamed approximations.
package stats

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-corpus/split"
)

// Metric names a measured document dimension.
type Metric string

// Measured dimensions, in report order.
const (
	Chars Metric = "chars"
	Words Metric = "words"
	Lines Metric = "lines"
)

// Metrics lists every dimension in report order.
var Metrics = []Metric{Chars, Words, Lines}

// Record holds the measured size of one document.
type Record struct {
	Chars int
	Words int
	Lines int
}

// Measure computes the size of a normalized document. Chars counts runes,
// Words counts whitespace-separated fields and Lines counts "\n"-separated
// segments, including the empty segment after a trailing newline.
func Measure(text string) Record {
	return Record{
		Chars: utf8.RuneCountInString(text),
		Words: len(strings.Fields(text)),
		Lines: strings.Count(text, "\n") + 1,
	}
}

func (r Record) value(m Metric) int {
	switch m {
	case Chars:
		return r.Chars
	case Words:
		return r.Words
	default:
		return r.Lines
	}
}

// series is the retained data of one split or of the whole corpus.
type series struct {
	docs   int
	groups map[string]struct{}
	values map[Metric][]int
}

func newSeries() *series {
	return &series{
		groups: make(map[string]struct{}),
		values: make(map[Metric][]int, len(Metrics)),
	}
}

func (s *series) add(group string, r Record) {
	s.docs++
	s.groups[group] = struct{}{}
	for _, m := range Metrics {
		s.values[m] = append(s.values[m], r.value(m))
	}
}

func (s *series) merge(o *series) {
	s.docs += o.docs
	for g := range o.groups {
		s.groups[g] = struct{}{}
	}
	for _, m := range Metrics {
		s.values[m] = append(s.values[m], o.values[m]...)
	}
}

// Aggregator collects records per split and overall.
// It is not safe for concurrent use; use one Aggregator per worker and
// Merge the results.
type Aggregator struct {
	all      *series
	byBucket map[split.Bucket]*series
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	a := &Aggregator{
		all:      newSeries(),
		byBucket: make(map[split.Bucket]*series, len(split.Buckets)),
	}
	for _, b := range split.Buckets {
		a.byBucket[b] = newSeries()
	}
	return a
}

// Add records one document of the given group in bucket b.
func (a *Aggregator) Add(b split.Bucket, group string, r Record) {
	a.all.add(group, r)
	s, ok := a.byBucket[b]
	if !ok {
		s = newSeries()
		a.byBucket[b] = s
	}
	s.add(group, r)
}

// Merge folds the records of o into a.
func (a *Aggregator) Merge(o *Aggregator) {
	a.all.merge(o.all)
	for b, s := range o.byBucket {
		dst, ok := a.byBucket[b]
		if !ok {
			dst = newSeries()
			a.byBucket[b] = dst
		}
		dst.merge(s)
	}
}

// Documents returns the number of documents recorded overall.
func (a *Aggregator) Documents() int {
	return a.all.docs
}

// Overall summarizes every recorded document.
func (a *Aggregator) Overall() Summary {
	return summarize("all", a.all)
}

// Split summarizes the documents assigned to b.
func (a *Aggregator) Split(b split.Bucket) Summary {
	s, ok := a.byBucket[b]
	if !ok {
		s = newSeries()
	}
	return summarize(string(b), s)
}

// Summaries returns the overall summary followed by one per split.
func (a *Aggregator) Summaries() []Summary {
	out := []Summary{a.Overall()}
	for _, b := range split.Buckets {
		out = append(out, a.Split(b))
	}
	return out
}

// Summary describes one split, or the whole corpus when Name is "all".
type Summary struct {
	Name          string
	Documents     int
	Groups        int
	Distributions []Distribution
}

// Distribution holds order statistics of one metric.
type Distribution struct {
	Metric Metric
	Mean   float64
	Min    int
	P1     int
	P5     int
	Median float64
	P95    int
	P99    int
	Max    int
	Sum    int
}

func summarize(name string, s *series) Summary {
	sum := Summary{
		Name:      name,
		Documents: s.docs,
		Groups:    len(s.groups),
	}
	if s.docs == 0 {
		return sum
	}
	for _, m := range Metrics {
		sum.Distributions = append(sum.Distributions, distribution(m, s.values[m]))
	}
	return sum
}

func distribution(m Metric, values []int) Distribution {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	n := len(sorted)
	total := lo.Sum(sorted)

	return Distribution{
		Metric: m,
		Mean:   float64(total) / float64(n),
		Min:    sorted[0],
		P1:     percentile(sorted, 0.01),
		P5:     percentile(sorted, 0.05),
		Median: median(sorted),
		P95:    percentile(sorted, 0.95),
		P99:    percentile(sorted, 0.99),
		Max:    sorted[n-1],
		Sum:    total,
	}
}

// percentile returns the value at index floor(n*p) of sorted values.
func percentile(sorted []int, p float64) int {
	i := int(float64(len(sorted)) * p)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}

// median averages the two middle values of an even-sized sample.
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
