package source

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	"github.com/jamesainslie/go-corpus/internal/archive"
	"github.com/jamesainslie/go-corpus/subtitles"
)

const (
	subtitleDir    = "Subtitles/texts/"
	subtitleSuffix = ".ru.txt"
)

// SubtitleReader reads Russian subtitle tracks from a tar.gz archive laid
// out as .../Subtitles/texts/<series>/<episode>.ru.txt. Documents are
// grouped by series so that all episodes share a split, and their text is
// passed through the subtitle cleaner.
type SubtitleReader struct {
	logger *slog.Logger
}

// Documents implements Reader.
func (r *SubtitleReader) Documents(ctx context.Context, path string) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for e, err := range entries(ctx, path, archive.TarGz) {
			if err != nil {
				yield(Document{}, err)
				return
			}
			if !strings.HasSuffix(e.Name, subtitleSuffix) || !strings.Contains(e.Name, subtitleDir) {
				continue
			}

			doc, err := r.document(e)
			if !forward(yield, doc, err) {
				return
			}
		}
	}
}

func (r *SubtitleReader) document(e archive.Entry) (Document, error) {
	_, rel, _ := strings.Cut(e.Name, subtitleDir)
	parts := strings.Split(rel, "/")
	if len(parts) != 2 {
		return Document{}, &EntryError{Entry: e.Name, Err: ErrMalformedEntry}
	}
	series := parts[0]

	text, err := readText(e)
	if err != nil {
		return Document{}, err
	}
	cleaned, err := subtitles.Clean(text)
	if err != nil {
		return Document{}, &EntryError{Entry: e.Name, Err: err}
	}
	r.logger.Debug("subtitle track", "entry", e.Name, "series", series)
	return Document{ID: e.Name, Group: series, Text: cleaned}, nil
}
