// Package config loads the optional YAML configuration of the caret CLI.
//
// Configuration is loaded from a single file specified by:
//   - the --config flag, or
//   - the CARET_CONFIG environment variable.
//
// Without either, built-in defaults are used. Command-line flags override
// values from the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/caret/dedup"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "CARET_CONFIG"

// Config is the CLI configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Scan   ScanConfig   `yaml:"scan"`
	Limits LimitsConfig `yaml:"limits"`
	Cache  CacheConfig  `yaml:"cache"`
	Export ExportConfig `yaml:"export"`
	S3     S3Config     `yaml:"s3"`
	MinIO  MinIOConfig  `yaml:"minio"`
}

// LogConfig configures logging to stderr.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level"`
	// JSON switches the handler from text to JSON.
	JSON bool `yaml:"json"`
}

// ScanConfig configures duplicate detection.
type ScanConfig struct {
	// Strategy is "exact" or "fuzzy" (alias "simhash"). Default: fuzzy
	Strategy string `yaml:"strategy"`
	// Threshold is the Hamming distance for fuzzy matching. Default: 3
	Threshold int `yaml:"threshold"`
	// ShingleWidth is the SimHash shingle width in bytes. Default: 4
	ShingleWidth int `yaml:"shingle_width"`
	// Workers is the fingerprinting worker count. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// ChunkSize is the number of lines per fingerprinting task. 0 means default.
	ChunkSize int `yaml:"chunk_size"`
}

// LimitsConfig bounds resource usage.
type LimitsConfig struct {
	// MemoryBytes caps in-memory datasets and scan working sets. 0 is unlimited.
	MemoryBytes int64 `yaml:"memory_bytes"`
	// IOBytesPerSec throttles remote reads and export writes. 0 is unlimited.
	IOBytesPerSec int64 `yaml:"io_bytes_per_sec"`
}

// CacheConfig configures the remote block cache.
type CacheConfig struct {
	// CapacityBytes enables the cache when positive.
	CapacityBytes int64 `yaml:"capacity_bytes"`
	// BlockSize is the cached block size. 0 means default.
	BlockSize int64 `yaml:"block_size"`
}

// ExportConfig configures deduplicated exports.
type ExportConfig struct {
	// Compression is none, zstd, lz4 or gzip. Empty infers it from the target name.
	Compression string `yaml:"compression"`
	// KeepDuplicates writes the duplicates instead of the unique lines.
	KeepDuplicates bool `yaml:"keep_duplicates"`
}

// S3Config configures s3:// sources and targets.
type S3Config struct {
	Region string `yaml:"region"`
	// Endpoint overrides the service endpoint (path-style addressing).
	Endpoint string `yaml:"endpoint"`
}

// MinIOConfig configures minio:// sources and targets.
type MinIOConfig struct {
	// Secure selects HTTPS. Default: true
	Secure bool `yaml:"secure"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := dedup.DefaultConfig()
	return &Config{
		Log: LogConfig{Level: "info"},
		Scan: ScanConfig{
			Strategy:     "fuzzy",
			Threshold:    d.Threshold,
			ShingleWidth: d.ShingleWidth,
		},
		MinIO: MinIOConfig{Secure: true},
	}
}

// Load loads the file at path, or at $CARET_CONFIG when path is empty.
// With neither set it returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path over the defaults.
// ${VAR} references in string values are expanded from the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Dedup(); err != nil {
		errs = append(errs, err)
	}
	if c.Scan.Workers < 0 {
		errs = append(errs, fmt.Errorf("scan.workers must be >= 0, got %d", c.Scan.Workers))
	}
	if c.Limits.MemoryBytes < 0 || c.Limits.IOBytesPerSec < 0 {
		errs = append(errs, errors.New("limits must be >= 0"))
	}
	if c.Cache.CapacityBytes < 0 || c.Cache.BlockSize < 0 {
		errs = append(errs, errors.New("cache sizes must be >= 0"))
	}
	switch strings.ToLower(c.Export.Compression) {
	case "", "none", "zstd", "zst", "lz4", "gzip", "gz":
	default:
		errs = append(errs, fmt.Errorf("unknown export.compression %q", c.Export.Compression))
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// Dedup returns the validated scan configuration.
func (c *Config) Dedup() (dedup.Config, error) {
	s, err := dedup.ParseStrategy(c.Scan.Strategy)
	if err != nil {
		return dedup.Config{}, err
	}
	cfg := dedup.Config{
		Strategy:     s,
		Threshold:    c.Scan.Threshold,
		ShingleWidth: c.Scan.ShingleWidth,
	}
	if err := cfg.Validate(); err != nil {
		return dedup.Config{}, err
	}
	return cfg, nil
}
