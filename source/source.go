// Package source extracts documents from corpus archives.
//
// Every corpus format is exposed through the same Reader capability: given
// the path of one archive it produces a lazy, finite, non-restartable
// sequence of documents in archive order. Problems confined to one archive
// entry are yielded as *EntryError values and iteration continues; any other
// error ends the sequence.
package source

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"unicode/utf8"

	"github.com/jamesainslie/go-corpus/internal/archive"
)

// Document is one extracted text unit.
type Document struct {
	// ID is the archive-relative entry path, unique within a source.
	ID string
	// Group is the key used for split assignment. Documents sharing a group
	// always land in the same split.
	Group string
	// Text is the decoded document text.
	Text string
}

// Reader produces the documents of one archive.
type Reader interface {
	Documents(ctx context.Context, path string) iter.Seq2[Document, error]
}

// Kind selects a Reader implementation.
type Kind string

// Supported corpus kinds.
const (
	KindSubtitles Kind = "subtitles"
	KindNews      Kind = "news"
	KindRNC       Kind = "rnc"
)

// Kinds lists every supported corpus kind.
var Kinds = []Kind{KindSubtitles, KindNews, KindRNC}

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrUnsupportedFormat indicates an archive or entry in a format the
	// reader does not handle.
	ErrUnsupportedFormat = errors.New("source: unsupported format")

	// ErrMalformedEntry indicates an entry whose path or content does not
	// follow the corpus layout.
	ErrMalformedEntry = errors.New("source: malformed entry")

	// ErrInvalidEncoding indicates entry bytes that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("source: invalid UTF-8")

	// ErrUnknownKind indicates a Kind without a Reader.
	ErrUnknownKind = errors.New("source: unknown kind")
)

// EntryError reports a problem with a single archive entry. The entry is
// skipped and iteration continues.
type EntryError struct {
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Option configures a Reader.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

func defaultConfig() config {
	return config{logger: slog.Default()}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns the Reader for kind. collection selects the sub-collection of
// a reference corpus and is ignored by other kinds.
func New(kind Kind, collection string, opts ...Option) (Reader, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch kind {
	case KindSubtitles:
		return &SubtitleReader{logger: cfg.logger}, nil
	case KindNews:
		return &NewsReader{logger: cfg.logger}, nil
	case KindRNC:
		if collection == "" {
			return nil, fmt.Errorf("%w: %s requires a collection", ErrUnknownKind, kind)
		}
		return &RNCReader{Collection: collection, logger: cfg.logger}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

var formats = map[Kind]archive.Format{
	KindSubtitles: archive.TarGz,
	KindNews:      archive.Zip,
	KindRNC:       archive.TarGz,
}

// Check reports whether path names an archive in the container format that
// kind reads. The error wraps ErrUnsupportedFormat or ErrUnknownKind.
func Check(kind Kind, path string) error {
	format, ok := formats[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := archive.Expect(path, format); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return nil
}

// entries checks the container format and yields archive entries, stopping
// when ctx is done.
func entries(ctx context.Context, path string, format archive.Format) iter.Seq2[archive.Entry, error] {
	return func(yield func(archive.Entry, error) bool) {
		if err := archive.Expect(path, format); err != nil {
			yield(archive.Entry{}, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err))
			return
		}
		for e, err := range archive.Entries(path, format) {
			if err == nil {
				err = ctx.Err()
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// readText reads an entry and decodes it as UTF-8.
func readText(e archive.Entry) (string, error) {
	data, err := e.ReadAll()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, e.Name)
	}
	return string(data), nil
}

// forward hands one entry result to yield. Entry errors are passed on and
// iteration continues; any other error ends the sequence. It reports
// whether the caller should keep iterating.
func forward(yield func(Document, error) bool, doc Document, err error) bool {
	var entryErr *EntryError
	if err != nil && !errors.As(err, &entryErr) {
		yield(Document{}, err)
		return false
	}
	return yield(doc, err)
}
