// Package split assigns documents to train, validation and test partitions.
//
// Assignment is a pure function of the group key and the train ratio, so it
// is stable across runs, processes and implementations: the group is hashed
// with MD5, the digest bytes are summed and the sum is reduced modulo the
// ratio. Residue 0 selects test, residue 1 selects valid and every other
// residue selects train, giving roughly (ratio-2):1:1.
package split

import (
	"crypto/md5"
	"errors"
	"fmt"
)

// Bucket is one of the output partitions.
type Bucket string

// Partitions.
const (
	Train Bucket = "train"
	Valid Bucket = "valid"
	Test  Bucket = "test"
)

// Buckets lists every partition in output order.
var Buckets = []Bucket{Train, Valid, Test}

// ErrInvalidRatio indicates a train ratio that cannot produce all three
// partitions.
var ErrInvalidRatio = errors.New("split: invalid train ratio")

// Assign returns the partition for group. ratio must be greater than 1.
func Assign(group string, ratio int) (Bucket, error) {
	if err := ValidateRatio(ratio); err != nil {
		return "", err
	}
	return assign(group, ratio), nil
}

// MustAssign is like Assign but panics on an invalid ratio. It is meant for
// ratios that were validated when the configuration was loaded.
func MustAssign(group string, ratio int) Bucket {
	b, err := Assign(group, ratio)
	if err != nil {
		panic(err)
	}
	return b
}

// ValidateRatio reports whether ratio is usable for Assign.
func ValidateRatio(ratio int) error {
	if ratio <= 1 {
		return fmt.Errorf("%w: %d (must be > 1)", ErrInvalidRatio, ratio)
	}
	return nil
}

func assign(group string, ratio int) Bucket {
	digest := md5.Sum([]byte(group))
	sum := 0
	for _, b := range digest {
		sum += int(b)
	}
	switch sum % ratio {
	case 0:
		return Test
	case 1:
		return Valid
	default:
		return Train
	}
}
