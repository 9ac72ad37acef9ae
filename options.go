package corpus

import (
	"log/slog"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	concurrency   int
	progressEvery int
	logger        *slog.Logger
}

func defaultOptions(cfg Config) options {
	o := options{
		concurrency:   1,
		progressEvery: 10000,
		logger:        slog.Default(),
	}
	if cfg.Concurrency > 0 {
		o.concurrency = cfg.Concurrency
	}
	return o
}

// WithConcurrency sets how many sources are processed at the same time
// (default: Config.Concurrency, or 1). Documents of one archive are always
// processed in order.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithProgressEvery sets how many documents pass between progress log
// lines (default: 10000).
func WithProgressEvery(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.progressEvery = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
