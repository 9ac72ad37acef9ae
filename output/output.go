// Package output writes split documents to disk.
//
// Two layouts are supported. A Stream concatenates every document of a
// split into one file, <dir>/<split>.txt, each followed by an end-of-text
// marker. Files writes one file per document below <dir>/<split>/, named by
// a hash of the source and document ID.
package output

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jamesainslie/go-corpus/split"
)

// DefaultEndOfText separates documents in stream mode.
const DefaultEndOfText = "\n\n"

const (
	dirPerm  = 0o755
	filePerm = 0o644
	bufSize  = 64 * 1024
)

// Sink receives the documents of one source.
type Sink interface {
	// Write stores the text of document id in bucket b.
	Write(b split.Bucket, id, text string) error
	// Close flushes and releases the sink.
	Close() error
}

// Stream writes each split as one concatenated text file.
type Stream struct {
	endOfText string
	files     map[split.Bucket]*os.File
	writers   map[split.Bucket]*bufio.Writer
}

// NewStream creates <dir>/train.txt, valid.txt and test.txt, truncating
// existing files.
func NewStream(dir, endOfText string) (*Stream, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	s := &Stream{
		endOfText: endOfText,
		files:     make(map[split.Bucket]*os.File, len(split.Buckets)),
		writers:   make(map[split.Bucket]*bufio.Writer, len(split.Buckets)),
	}
	for _, b := range split.Buckets {
		name := filepath.Join(dir, string(b)+".txt")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		s.files[b] = f
		s.writers[b] = bufio.NewWriterSize(f, bufSize)
	}
	return s, nil
}

// Write appends text and the end-of-text marker to the bucket's file.
func (s *Stream) Write(b split.Bucket, _ string, text string) error {
	w, ok := s.writers[b]
	if !ok {
		return fmt.Errorf("output: unknown bucket %q", b)
	}
	if _, err := w.WriteString(text); err != nil {
		return err
	}
	_, err := w.WriteString(s.endOfText)
	return err
}

// Close flushes and closes all split files.
func (s *Stream) Close() error {
	var errs []error
	for _, b := range split.Buckets {
		if w, ok := s.writers[b]; ok {
			if err := w.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
		if f, ok := s.files[b]; ok {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	s.files, s.writers = nil, nil
	return errors.Join(errs...)
}

// Files writes one file per document at
// <dir>/<split>/<id[:2]>/<id>.txt where id is the hex MD5 of
// "<source>-<document ID>".
type Files struct {
	dir    string
	source string
	logger *slog.Logger

	seen       map[string]struct{}
	duplicates int
}

// NewFiles returns a file-per-document sink rooted at dir.
func NewFiles(dir, source string, logger *slog.Logger) *Files {
	if logger == nil {
		logger = slog.Default()
	}
	return &Files{
		dir:    dir,
		source: source,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// Path returns the file a document is written to.
func (f *Files) Path(b split.Bucket, id string) string {
	sum := md5.Sum([]byte(f.source + "-" + id))
	fileID := hex.EncodeToString(sum[:])
	return filepath.Join(f.dir, string(b), fileID[:2], fileID+".txt")
}

// Write stores text in its own file. A path that was already written in
// this run is overwritten and logged as a duplicate.
func (f *Files) Write(b split.Bucket, id, text string) error {
	name := f.Path(b, id)
	if err := os.MkdirAll(filepath.Dir(name), dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(name), err)
	}
	if err := os.WriteFile(name, []byte(text), filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if _, ok := f.seen[name]; ok {
		f.duplicates++
		f.logger.Warn("duplicate file path", "source", f.source, "document", id, "path", name)
	}
	f.seen[name] = struct{}{}
	return nil
}

// Duplicates returns how many writes hit an already written path.
func (f *Files) Duplicates() int {
	return f.duplicates
}

// Close implements Sink. Files are written synchronously so there is
// nothing to flush.
func (f *Files) Close() error {
	return nil
}
