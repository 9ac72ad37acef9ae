package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-corpus/normalize"
	"github.com/jamesainslie/go-corpus/output"
	"github.com/jamesainslie/go-corpus/source"
	"github.com/jamesainslie/go-corpus/split"
	"github.com/jamesainslie/go-corpus/stats"
)

// Pipeline turns the configured archives into split text files.
// It is safe to call Run more than once; each call overwrites the output.
type Pipeline struct {
	cfg  Config
	opts options
}

// Report is the outcome of one source.
type Report struct {
	// Source is the configured source name.
	Source string
	// Archive is the resolved archive path.
	Archive string
	// Stats holds the measurements of every written document. It is nil
	// when the source was skipped before reading.
	Stats *stats.Aggregator
	// Skipped counts entries dropped because of entry-level errors.
	Skipped int
	// Duplicates counts output paths written more than once (files mode).
	Duplicates int
	// Err is why the source was skipped or aborted, if it was.
	Err error
}

// Read reports whether the archive was read, even partially.
func (r Report) Read() bool {
	return r.Stats != nil
}

// New creates a Pipeline for a validated copy of cfg.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Target == "" {
		return nil, fmt.Errorf("%w: no target directory", ErrInvalidConfig)
	}

	o := defaultOptions(cfg)
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{cfg: cfg, opts: o}, nil
}

// Run processes every source and returns one report per source in
// configuration order. Missing archives and archives in the wrong container
// format are logged and skipped. The returned error joins the errors of
// sources that failed while being read.
func (p *Pipeline) Run(ctx context.Context) ([]Report, error) {
	reports := make([]Report, len(p.cfg.Sources))

	var g errgroup.Group
	g.SetLimit(p.opts.concurrency)
	for i, sc := range p.cfg.Sources {
		g.Go(func() error {
			reports[i] = p.runSource(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range reports {
		if r.Err != nil && !skipped(r.Err) {
			errs = append(errs, r.Err)
		}
	}
	return reports, errors.Join(errs...)
}

// skipped reports whether err means the source was never started.
func skipped(err error) bool {
	return errors.Is(err, ErrArchiveNotFound) || errors.Is(err, source.ErrUnsupportedFormat)
}

func (p *Pipeline) runSource(ctx context.Context, sc SourceConfig) (rep Report) {
	path := filepath.Join(p.cfg.Root, sc.Archive)
	logger := p.opts.logger.With("source", sc.Name)
	rep = Report{Source: sc.Name, Archive: path}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			rep.Err = fmt.Errorf("%w: %s", ErrArchiveNotFound, path)
			logger.Warn("archive not found, skipping", "path", path)
			return rep
		}
		rep.Err = fmt.Errorf("%s: checking archive: %w", sc.Name, err)
		return rep
	}
	if err := source.Check(sc.Kind, path); err != nil {
		rep.Err = fmt.Errorf("%s: %w", sc.Name, err)
		logger.Warn("unsupported archive, skipping", "path", path, "err", err)
		return rep
	}

	reader, err := source.New(sc.Kind, sc.Collection, source.WithLogger(logger))
	if err != nil {
		rep.Err = fmt.Errorf("%s: %w", sc.Name, err)
		return rep
	}
	sink, err := p.newSink(sc.Name, logger)
	if err != nil {
		rep.Err = fmt.Errorf("%s: %w", sc.Name, err)
		return rep
	}
	defer func() {
		if d, ok := sink.(interface{ Duplicates() int }); ok {
			rep.Duplicates = d.Duplicates()
		}
		if err := sink.Close(); err != nil {
			rep.Err = errors.Join(rep.Err, fmt.Errorf("%s: closing output: %w", sc.Name, err))
		}
	}()

	logger.Info("reading archive", "path", path)
	rep.Stats = stats.NewAggregator()
	for doc, err := range reader.Documents(ctx, path) {
		if err != nil {
			var entryErr *source.EntryError
			if errors.As(err, &entryErr) {
				rep.Skipped++
				logger.Warn("skipping entry", "entry", entryErr.Entry, "err", entryErr.Err)
				continue
			}
			rep.Err = fmt.Errorf("%s: %w", sc.Name, err)
			logger.Error("aborting source", "err", err)
			break
		}

		text, ok := normalize.Text(doc.Text)
		if !ok {
			continue
		}
		bucket := split.MustAssign(doc.Group, sc.TrainRatio)
		if err := sink.Write(bucket, doc.ID, text); err != nil {
			rep.Err = fmt.Errorf("%s: writing %s: %w", sc.Name, doc.ID, err)
			break
		}
		rep.Stats.Add(bucket, doc.Group, stats.Measure(text))

		if n := rep.Stats.Documents(); n%p.opts.progressEvery == 0 {
			logger.Info("progress", "documents", n, "skipped", rep.Skipped)
		}
	}
	logger.Info("finished archive", "documents", rep.Stats.Documents(), "skipped", rep.Skipped)
	return rep
}

func (p *Pipeline) newSink(name string, logger *slog.Logger) (output.Sink, error) {
	dir := filepath.Join(p.cfg.Target, name)
	if p.cfg.AsFiles {
		return output.NewFiles(dir, name, logger), nil
	}
	return output.NewStream(dir, p.cfg.EndOfText)
}
