package tokenizer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// TokenizeDir rewrites prepared split files as space separated pieces.
// For every sub-directory of src, each *.txt file is written to
// dst/<sub-directory>/<name> with one line of pieces per input line.
// Files directly inside src are ignored. It returns the number of files
// written.
func (t *Tokenizer) TokenizeDir(ctx context.Context, src, dst string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dirs, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", src, err)
	}

	var written int
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		files, err := filepath.Glob(filepath.Join(src, d.Name(), "*.txt"))
		if err != nil {
			return written, err
		}
		for _, in := range files {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			out := filepath.Join(dst, d.Name(), filepath.Base(in))
			lines, err := t.tokenizeFile(in, out)
			if err != nil {
				return written, err
			}
			written++
			logger.Info("tokenized", "file", in, "lines", lines)
		}
	}
	return written, nil
}

func (t *Tokenizer) tokenizeFile(in, out string) (lines int, err error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, err
	}
	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if lines, err = t.tokenizeLines(bufio.NewReader(src), dst); err != nil {
		return lines, fmt.Errorf("tokenizing %s: %w", in, err)
	}
	return lines, nil
}

// tokenizeLines writes the pieces of every line of r to w.
func (t *Tokenizer) tokenizeLines(r *bufio.Reader, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var lines int
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lines++
			if _, werr := bw.WriteString(strings.Join(t.Pieces(strings.TrimSpace(line)), " ") + "\n"); werr != nil {
				return lines, werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return lines, err
		}
	}
	return lines, bw.Flush()
}
