package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the digest run configuration
type Config struct {
	// Scan settings
	Root         string   `mapstructure:"root"`          // root directory, prompted for when empty
	BlockSize    string   `mapstructure:"block_size"`    // read block size for hashing (e.g. "64K")
	OnError      string   `mapstructure:"on_error"`      // skip, abort
	CreationTime string   `mapstructure:"creation_time"` // ctime, birth
	Exclude      []string `mapstructure:"exclude"`       // directory names to leave out

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // csv, json, yaml, msgpack, duckdb, md
	ReportPrefix string `mapstructure:"report_prefix"` // file name prefix before the timestamp
	OutputDir    string `mapstructure:"output_dir"`    // report directory, current directory when empty

	// Console settings
	Progress bool `mapstructure:"progress"` // print progress while hashing
}

// ErrorPolicy decides what happens when a file cannot be read
type ErrorPolicy int

const (
	PolicySkip ErrorPolicy = iota
	PolicyAbort
)

// CreationSource selects which timestamp fills file_creation_time
type CreationSource int

const (
	CreationCTime CreationSource = iota
	CreationBirth
)

var (
	ReportFormats   = []string{"csv", "json", "yaml", "msgpack", "duckdb", "md"}
	ErrorPolicies   = []string{"skip", "abort"}
	CreationSources = []string{"ctime", "birth"}
)

// DefaultBlockSize is the hashing block size when none is configured
const DefaultBlockSize = "64K"

// Accepted range of the hashing block size in bytes
const (
	MinBlockSize     = 512
	MaxBlockSize     = 64 * 1024 * 1024
	defaultBlockSize = 64 * 1024
)

// LoadConfig loads configuration from defaults, an optional config file and
// FDIGEST_* environment variables
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("root", "")
	v.SetDefault("block_size", DefaultBlockSize)
	v.SetDefault("on_error", "skip")
	v.SetDefault("creation_time", "ctime")
	v.SetDefault("exclude", []string{})
	v.SetDefault("report_format", "csv")
	v.SetDefault("report_prefix", "fdigest")
	v.SetDefault("output_dir", "")
	v.SetDefault("progress", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Read environment variables
	v.SetEnvPrefix("FDIGEST")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if !contains(ReportFormats, c.ReportFormat) {
		return fmt.Errorf("report_format must be one of: %s (got: %s)", strings.Join(ReportFormats, ", "), c.ReportFormat)
	}
	if !contains(ErrorPolicies, c.OnError) {
		return fmt.Errorf("on_error must be one of: %s (got: %s)", strings.Join(ErrorPolicies, ", "), c.OnError)
	}
	if !contains(CreationSources, c.CreationTime) {
		return fmt.Errorf("creation_time must be one of: %s (got: %s)", strings.Join(CreationSources, ", "), c.CreationTime)
	}
	if c.ReportPrefix == "" {
		return fmt.Errorf("report_prefix must not be empty")
	}
	if err := checkBlockSize(c.BlockSize); err != nil {
		return err
	}
	return nil
}

func checkBlockSize(s string) error {
	size, err := ParseSize(s)
	if err != nil {
		return fmt.Errorf("block_size: %w", err)
	}
	if size < MinBlockSize || size > MaxBlockSize {
		return fmt.Errorf("block_size must be between 512 and 64M bytes (got: %s)", s)
	}
	return nil
}

// GetBlockSize returns the hashing block size in bytes, or the default when
// block_size is empty, malformed or out of range
func (c *Config) GetBlockSize() int {
	if checkBlockSize(c.BlockSize) != nil {
		return defaultBlockSize
	}
	size, _ := ParseSize(c.BlockSize)
	return int(size)
}

// ParseSize parses size string (e.g., "64K", "1M") to bytes. The number must
// be a non-negative integer, optionally followed by one of K, M or G.
func ParseSize(sizeStr string) (int64, error) {
	if len(sizeStr) == 0 {
		return 0, fmt.Errorf("empty size")
	}

	// Get last character (unit)
	num := sizeStr
	var multiplier int64 = 1

	switch sizeStr[len(sizeStr)-1] {
	case 'K', 'k':
		multiplier = 1024
		num = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		num = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		num = sizeStr[:len(sizeStr)-1]
	}

	// Parse number
	size, err := strconv.ParseInt(num, 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("invalid size %q", sizeStr)
	}
	if size > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size %q overflows", sizeStr)
	}

	return size * multiplier, nil
}

// GetErrorPolicy returns the file error policy enum value
func (c *Config) GetErrorPolicy() ErrorPolicy {
	if c.OnError == "abort" {
		return PolicyAbort
	}
	return PolicySkip
}

// GetCreationSource returns the creation time source enum value
func (c *Config) GetCreationSource() CreationSource {
	if c.CreationTime == "birth" {
		return CreationBirth
	}
	return CreationCTime
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
