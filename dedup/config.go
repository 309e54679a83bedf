package dedup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/caret/fingerprint"
)

// MaxThreshold is the largest meaningful Hamming threshold for 64-bit fingerprints.
const MaxThreshold = fingerprint.Bits

// RecommendedMaxThreshold is the largest threshold that stays useful in
// practice. Larger values are accepted but logged as a warning since they
// start merging unrelated records.
const RecommendedMaxThreshold = 10

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("dedup: invalid config")

// ConfigError describes which field failed validation.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dedup: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Strategy selects how fingerprints are matched in classification.
type Strategy uint8

const (
	// Exact treats lines as duplicates only when their fingerprints are equal.
	// It is not a byte comparison: lines with different text match when
	// their fingerprints collide.
	Exact Strategy = iota
	// Fuzzy treats lines as duplicates when their fingerprints are within
	// the configured Hamming threshold.
	Fuzzy
)

func (s Strategy) String() string {
	switch s {
	case Exact:
		return "exact"
	case Fuzzy:
		return "simhash"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy parses "exact", or "fuzzy"/"simhash".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exact":
		return Exact, nil
	case "fuzzy", "simhash":
		return Fuzzy, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
	}
}

// Config parameterizes a scan.
type Config struct {
	Strategy Strategy `yaml:"strategy"`
	// Threshold is the maximum Hamming distance in bits for two fingerprints
	// to fall in the same cluster. Ignored by Exact.
	Threshold int `yaml:"threshold"`
	// ShingleWidth is the SimHash shingle width in bytes.
	ShingleWidth int `yaml:"shingle_width"`
}

// DefaultConfig returns fuzzy matching at threshold 3 with 4-byte shingles.
func DefaultConfig() Config {
	return Config{
		Strategy:     Fuzzy,
		Threshold:    3,
		ShingleWidth: fingerprint.DefaultShingleWidth,
	}
}

// ExactConfig returns exact matching with the default shingle width.
func ExactConfig() Config {
	return Config{Strategy: Exact, ShingleWidth: fingerprint.DefaultShingleWidth}
}

// Validate checks the threshold range and shingle width.
func (c Config) Validate() error {
	if c.Strategy != Exact && c.Strategy != Fuzzy {
		return &ConfigError{Field: "strategy", Value: int(c.Strategy), Reason: "unknown strategy"}
	}
	if c.Threshold < 0 || c.Threshold > MaxThreshold {
		return &ConfigError{Field: "threshold", Value: c.Threshold, Reason: fmt.Sprintf("must be within 0..%d", MaxThreshold)}
	}
	if c.ShingleWidth < 1 {
		return &ConfigError{Field: "shingle width", Value: c.ShingleWidth, Reason: "must be >= 1"}
	}
	return nil
}

// String returns the display label, e.g. "exact" or "simhash(t=3)".
func (c Config) String() string {
	if c.Strategy == Fuzzy {
		return fmt.Sprintf("simhash(t=%d)", c.Threshold)
	}
	return c.Strategy.String()
}
