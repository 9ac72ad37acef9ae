package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/go-corpus/output"
	"github.com/jamesainslie/go-corpus/source"
	"github.com/jamesainslie/go-corpus/split"
)

// Config describes one preparation run.
type Config struct {
	// Root is the directory holding the source archives.
	Root string `yaml:"root,omitempty"`
	// Target is the output directory; each source writes below Target/<name>.
	Target string `yaml:"target,omitempty"`
	// EndOfText is written after every document in stream mode.
	EndOfText string `yaml:"end_of_text"`
	// AsFiles writes one file per document instead of one stream per split.
	AsFiles bool `yaml:"as_files"`
	// Concurrency is the number of sources processed at once.
	Concurrency int `yaml:"concurrency"`
	// Sources are processed and reported in this order.
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig binds an archive to a reader and a split ratio.
type SourceConfig struct {
	// Name is the output directory name, e.g. "taiga-news".
	Name string `yaml:"name"`
	// Archive is the archive file name relative to Config.Root.
	Archive string `yaml:"archive"`
	// Kind selects the reader.
	Kind source.Kind `yaml:"kind"`
	// Collection selects an RNC sub-collection.
	Collection string `yaml:"collection,omitempty"`
	// TrainRatio controls the split sizes: about 1/TrainRatio of the groups
	// go to each of test and valid.
	TrainRatio int `yaml:"train_ratio"`
}

// DefaultSources returns the standard Taiga and RNC sources. The ratios give
// validation sets of similar volume for subtitles, news and literature.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "taiga-subtitles", Archive: "Subtitles.tar.gz", Kind: source.KindSubtitles, TrainRatio: 30},
		{Name: "taiga-news", Archive: "news.zip", Kind: source.KindNews, TrainRatio: 170},
		{Name: "rnc-main", Archive: "ruscorpora.tar.gz", Kind: source.KindRNC, Collection: "main", TrainRatio: 300},
		{Name: "rnc-paper", Archive: "ruscorpora.tar.gz", Kind: source.KindRNC, Collection: "paper", TrainRatio: 480},
	}
}

// DefaultConfig returns a configuration with the default sources.
func DefaultConfig() Config {
	return Config{
		EndOfText:   output.DefaultEndOfText,
		Concurrency: 1,
		Sources:     DefaultSources(),
	}
}

// LoadConfig reads a YAML configuration. Fields missing from the file keep
// their DefaultConfig values; a sources list replaces the defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// WriteConfig encodes cfg as YAML.
func WriteConfig(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// Validate reports every problem with the configuration, each wrapping
// ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Concurrency < 0 {
		invalid("concurrency %d is negative", c.Concurrency)
	}
	if len(c.Sources) == 0 {
		invalid("no sources")
	}
	for i, s := range c.Sources {
		switch {
		case s.Name == "":
			invalid("source %d has no name", i)
		case s.Archive == "":
			invalid("source %s has no archive", s.Name)
		case !lo.Contains(source.Kinds, s.Kind):
			invalid("source %s has unknown kind %q", s.Name, s.Kind)
		case s.Kind == source.KindRNC && s.Collection == "":
			invalid("source %s needs a collection", s.Name)
		}
		if err := split.ValidateRatio(s.TrainRatio); err != nil {
			invalid("source %s: %v", s.Name, err)
		}
	}
	names := lo.Map(c.Sources, func(s SourceConfig, _ int) string { return s.Name })
	for _, name := range lo.FindDuplicates(names) {
		invalid("duplicate source name %q", name)
	}
	return errors.Join(errs...)
}

// Only returns a copy of c restricted to the named sources, keeping the
// configuration order. An empty list selects every source.
func (c Config) Only(names ...string) (Config, error) {
	if len(names) == 0 {
		return c, nil
	}
	known := lo.Map(c.Sources, func(s SourceConfig, _ int) string { return s.Name })
	if missing, _ := lo.Difference(names, known); len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %v", ErrUnknownSource, missing)
	}
	c.Sources = lo.Filter(c.Sources, func(s SourceConfig, _ int) bool {
		return lo.Contains(names, s.Name)
	})
	return c, nil
}
