package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetErrorPolicy(t *testing.T) {
	tests := []struct {
		name     string
		onError  string
		expected ErrorPolicy
	}{
		{"Skip", "skip", PolicySkip},
		{"Abort", "abort", PolicyAbort},
		{"Default", "", PolicySkip},
		{"Invalid", "invalid", PolicySkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{OnError: tt.onError}
			if got := cfg.GetErrorPolicy(); got != tt.expected {
				t.Errorf("GetErrorPolicy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCreationSource(t *testing.T) {
	tests := []struct {
		source   string
		expected CreationSource
	}{
		{"ctime", CreationCTime},
		{"birth", CreationBirth},
		{"", CreationCTime},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			cfg := &Config{CreationTime: tt.source}
			if got := cfg.GetCreationSource(); got != tt.expected {
				t.Errorf("GetCreationSource() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ReportFormat: "csv",
			ReportPrefix: "fdigest",
			OnError:      "skip",
			CreationTime: "ctime",
			BlockSize:    DefaultBlockSize,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"DuckDB format", func(c *Config) { c.ReportFormat = "duckdb" }, false},
		{"Unknown format", func(c *Config) { c.ReportFormat = "xml" }, true},
		{"Unknown policy", func(c *Config) { c.OnError = "retry" }, true},
		{"Unknown creation source", func(c *Config) { c.CreationTime = "atime" }, true},
		{"Empty prefix", func(c *Config) { c.ReportPrefix = "" }, true},
		{"Block size 1M", func(c *Config) { c.BlockSize = "1M" }, false},
		{"Block size minimum", func(c *Config) { c.BlockSize = "512" }, false},
		{"Block size maximum", func(c *Config) { c.BlockSize = "64M" }, false},
		{"Block size with unit suffix", func(c *Config) { c.BlockSize = "64KB" }, true},
		{"Block size not a number", func(c *Config) { c.BlockSize = "abc" }, true},
		{"Block size empty", func(c *Config) { c.BlockSize = "" }, true},
		{"Block size too small", func(c *Config) { c.BlockSize = "511" }, true},
		{"Block size too large", func(c *Config) { c.BlockSize = "100G" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{"Bytes", "100", 100, false},
		{"Kilobytes", "1K", 1024, false},
		{"Kilobytes lowercase", "1k", 1024, false},
		{"Default block", "64K", 65536, false},
		{"Megabytes", "1M", 1024 * 1024, false},
		{"Gigabytes", "1G", 1024 * 1024 * 1024, false},
		{"Invalid format", "abc", 0, true},
		{"Two letter unit", "64KB", 0, true},
		{"Negative", "-1K", 0, true},
		{"Fraction", "1.5M", 0, true},
		{"Unit only", "K", 0, true},
		{"Overflow", "9223372036854775807G", 0, true},
		{"Empty string", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetBlockSize(t *testing.T) {
	tests := []struct {
		blockSize string
		expected  int
	}{
		{"64K", 65536},
		{"4096", 4096},
		{"64M", 64 * 1024 * 1024},
		{"", 65536},
		{"64KB", 65536},
		{"100G", 65536},
		{"1", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.blockSize, func(t *testing.T) {
			cfg := &Config{BlockSize: tt.blockSize}
			if got := cfg.GetBlockSize(); got != tt.expected {
				t.Errorf("GetBlockSize() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Test default config loading (without config file)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ReportFormat != "csv" {
		t.Errorf("Default report_format = %v, want %v", cfg.ReportFormat, "csv")
	}

	if cfg.ReportPrefix != "fdigest" {
		t.Errorf("Default report_prefix = %v, want %v", cfg.ReportPrefix, "fdigest")
	}

	if cfg.BlockSize != "64K" {
		t.Errorf("Default block_size = %v, want %v", cfg.BlockSize, "64K")
	}

	if cfg.OnError != "skip" {
		t.Errorf("Default on_error = %v, want %v", cfg.OnError, "skip")
	}

	if cfg.CreationTime != "ctime" {
		t.Errorf("Default creation_time = %v, want %v", cfg.CreationTime, "ctime")
	}

	if cfg.Progress != true {
		t.Errorf("Default progress = %v, want %v", cfg.Progress, true)
	}

	if len(cfg.Exclude) != 0 {
		t.Errorf("Default exclude count = %v, want 0", len(cfg.Exclude))
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config does not validate: %v", err)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("FDIGEST_REPORT_FORMAT", "json")
	t.Setenv("FDIGEST_ON_ERROR", "abort")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ReportFormat != "json" {
		t.Errorf("report_format = %v, want %v", cfg.ReportFormat, "json")
	}
	if cfg.GetErrorPolicy() != PolicyAbort {
		t.Errorf("on_error = %v, want abort", cfg.OnError)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdigest.yaml")
	content := "report_format: msgpack\nblock_size: 1M\nexclude:\n  - .git\n  - node_modules\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ReportFormat != "msgpack" {
		t.Errorf("report_format = %v, want %v", cfg.ReportFormat, "msgpack")
	}
	if cfg.BlockSize != "1M" {
		t.Errorf("block_size = %v, want %v", cfg.BlockSize, "1M")
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[0] != ".git" {
		t.Errorf("exclude = %v, want [.git node_modules]", cfg.Exclude)
	}
	// Untouched keys keep their defaults
	if cfg.ReportPrefix != "fdigest" {
		t.Errorf("report_prefix = %v, want %v", cfg.ReportPrefix, "fdigest")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("LoadConfig() expected error for missing config file, got nil")
	}
}
