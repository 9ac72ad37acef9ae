package corpus

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrArchiveNotFound indicates a configured archive does not exist.
	ErrArchiveNotFound = errors.New("corpus: archive not found")

	// ErrInvalidConfig indicates a configuration that cannot be run.
	ErrInvalidConfig = errors.New("corpus: invalid configuration")

	// ErrUnknownSource indicates a source name missing from the configuration.
	ErrUnknownSource = errors.New("corpus: unknown source")
)
