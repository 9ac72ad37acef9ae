package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/jamesainslie/go-corpus/internal/archive"
)

// RNCReader reads one sub-collection of the Russian National Corpus from a
// tar.gz archive. Entries are selected by the second path segment, e.g.
// "ruscorpora/main/...". Manually annotated texts are skipped because their
// punctuation and spacing cannot be recovered from the tagging.
type RNCReader struct {
	Collection string

	logger *slog.Logger
}

// Documents implements Reader.
func (r *RNCReader) Documents(ctx context.Context, path string) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for e, err := range entries(ctx, path, archive.TarGz) {
			if err != nil {
				yield(Document{}, err)
				return
			}
			if !r.selects(e.Name) {
				continue
			}

			doc, ok, err := r.document(e)
			if !ok && err == nil {
				continue
			}
			if !forward(yield, doc, err) {
				return
			}
		}
	}
}

func (r *RNCReader) selects(name string) bool {
	parts := strings.Split(name, "/")
	if len(parts) < 2 || parts[1] != r.Collection {
		return false
	}
	return strings.HasSuffix(name, ".xhtml") || strings.HasSuffix(name, ".xml")
}

func (r *RNCReader) document(e archive.Entry) (Document, bool, error) {
	rc, err := e.Open()
	if err != nil {
		return Document{}, false, fmt.Errorf("opening %s: %w", e.Name, err)
	}
	defer func() { _ = rc.Close() }()

	text, err := ExtractRNC(rc)
	switch {
	case errors.Is(err, ErrAnnotated):
		r.logger.Debug("skipping annotated text", "entry", e.Name)
		return Document{}, false, nil
	case err != nil:
		return Document{}, false, &EntryError{Entry: e.Name, Err: err}
	}
	return Document{ID: e.Name, Group: e.Name, Text: text}, true, nil
}

// ErrAnnotated indicates a manually annotated RNC text.
var ErrAnnotated = errors.New("source: annotated text")

var rncSpaceRe = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)

// ExtractRNC returns the body text of an RNC XML document.
//
// Every text node below the root's body element becomes one line: it is
// trimmed, "--" becomes an em dash and whitespace runs collapse to one
// space. Text nodes consisting of exactly "\n" are structural and dropped.
// Documents carrying a <meta content="manual"> marker or any <ana> element
// yield ErrAnnotated. Parse failures and a missing body are wrapped in
// ErrMalformedEntry.
func ExtractRNC(r io.Reader) (string, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	d.Entity = xml.HTMLEntity

	var (
		depth     int
		rootSpace string
		inBody    bool
		sawBody   bool
		annotated bool
		nodes     []string
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformedEntry, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				rootSpace = t.Name.Space
			}
			if isAnnotation(t) {
				annotated = true
			}
			if depth == 2 && !sawBody && t.Name.Local == "body" && t.Name.Space == rootSpace {
				inBody, sawBody = true, true
			}
		case xml.EndElement:
			if depth == 2 && inBody {
				inBody = false
			}
			depth--
		case xml.CharData:
			if inBody {
				nodes = append(nodes, string(t))
			}
		}
	}

	if annotated {
		return "", ErrAnnotated
	}
	if !sawBody {
		return "", fmt.Errorf("%w: no body element", ErrMalformedEntry)
	}

	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n == "\n" {
			continue
		}
		n = strings.ReplaceAll(strings.TrimSpace(n), "--", "—")
		lines = append(lines, rncSpaceRe.ReplaceAllString(n, " "))
	}
	return strings.Join(lines, "\n"), nil
}

func isAnnotation(t xml.StartElement) bool {
	switch t.Name.Local {
	case "ana":
		return true
	case "meta":
		for _, a := range t.Attr {
			if a.Name.Local == "content" && a.Value == "manual" {
				return true
			}
		}
	}
	return false
}
