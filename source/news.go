package source

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path"
	"strings"

	"github.com/jamesainslie/go-corpus/internal/archive"
)

const newsDir = "/texts/"

// NewsReader reads news articles from a zip archive. Every .txt entry below a
// texts directory is one document and its own group, so each article gets an
// independent split. Metadata .csv entries are skipped; any other extension
// is reported as an unsupported entry.
type NewsReader struct {
	logger *slog.Logger
}

// Documents implements Reader.
func (r *NewsReader) Documents(ctx context.Context, archivePath string) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for e, err := range entries(ctx, archivePath, archive.Zip) {
			if err != nil {
				yield(Document{}, err)
				return
			}
			if !strings.Contains(e.Name, newsDir) {
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

func (r *NewsReader) document(e archive.Entry) (Document, bool, error) {
	switch ext := path.Ext(e.Name); ext {
	case "":
		return Document{}, false, nil
	case ".csv":
		r.logger.Debug("skipping metadata", "entry", e.Name)
		return Document{}, false, nil
	case ".txt":
		text, err := readText(e)
		if err != nil {
			return Document{}, false, err
		}
		return Document{ID: e.Name, Group: e.Name, Text: text}, true, nil
	default:
		return Document{}, false, &EntryError{
			Entry: e.Name,
			Err:   fmt.Errorf("%w: unexpected extension %q", ErrUnsupportedFormat, ext),
		}
	}
}
