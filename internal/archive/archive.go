// Package archive iterates over the entries of tar.gz and zip containers.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Format is a container format.
type Format int

// Supported container formats.
const (
	TarGz Format = iota + 1
	Zip
)

func (f Format) String() string {
	switch f {
	case TarGz:
		return "tar.gz"
	case Zip:
		return "zip"
	default:
		return "unknown"
	}
}

// ErrWrongContainer indicates an archive whose name does not match the
// expected container format.
var ErrWrongContainer = errors.New("archive: wrong container format")

// Detect infers the container format from the file name.
func Detect(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return TarGz, nil
	case strings.HasSuffix(lower, ".zip"):
		return Zip, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrWrongContainer, path)
	}
}

// Expect returns an error wrapping ErrWrongContainer unless path names an
// archive of format want.
func Expect(path string, want Format) error {
	got, err := Detect(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s is %s, want %s", ErrWrongContainer, path, got, want)
	}
	return nil
}

// Entry is one regular file inside an archive.
type Entry struct {
	// Name is the archive-relative path as stored in the container.
	Name string
	// Size is the uncompressed size in bytes.
	Size int64

	open func() (io.ReadCloser, error)
}

// Open returns the entry contents. For tar archives the reader is only valid
// until iteration advances to the next entry.
func (e Entry) Open() (io.ReadCloser, error) {
	return e.open()
}

// ReadAll reads the whole entry.
func (e Entry) ReadAll() ([]byte, error) {
	rc, err := e.open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", e.Name, err)
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", e.Name, err)
	}
	return data, nil
}

// Entries yields the regular file entries of the archive at path in storage
// order. A non-nil error ends the sequence. The archive is closed when the
// sequence finishes or the consumer stops early.
func Entries(path string, format Format) iter.Seq2[Entry, error] {
	switch format {
	case TarGz:
		return tarEntries(path)
	case Zip:
		return zipEntries(path)
	default:
		return func(yield func(Entry, error) bool) {
			yield(Entry{}, fmt.Errorf("%w: %s", ErrWrongContainer, format))
		}
	}
}

func tarEntries(path string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Entry{}, fmt.Errorf("opening archive: %w", err))
			return
		}
		defer func() { _ = f.Close() }() // read-only

		gz, err := gzip.NewReader(f)
		if err != nil {
			yield(Entry{}, fmt.Errorf("reading gzip header: %w", err))
			return
		}
		defer func() { _ = gz.Close() }()

		tr := tar.NewReader(gz)
		for {
			hdr, err := tr.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Entry{}, fmt.Errorf("reading tar: %w", err))
				return
			}
			if !hdr.FileInfo().Mode().IsRegular() {
				continue
			}
			entry := Entry{
				Name: hdr.Name,
				Size: hdr.Size,
				open: func() (io.ReadCloser, error) { return io.NopCloser(tr), nil },
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func zipEntries(path string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		zr, err := zip.OpenReader(path)
		if err != nil {
			yield(Entry{}, fmt.Errorf("opening archive: %w", err))
			return
		}
		defer func() { _ = zr.Close() }()

		for _, zf := range zr.File {
			if zf.FileInfo().IsDir() {
				continue
			}
			entry := Entry{
				Name: zf.Name,
				Size: int64(zf.UncompressedSize64),
				open: zf.Open,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}
