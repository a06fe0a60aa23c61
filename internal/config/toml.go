// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz    QuizConfig    `toml:"quiz"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// QuizConfig maps capture-related settings.
type QuizConfig struct {
	Seed             *int64 `toml:"seed"`
	ShuffleTone      *bool  `toml:"shuffle-tone"`
	ChronoTrials     *int   `toml:"chrono-trials"`
	NaturalCycles    *int   `toml:"natural-cycles"`
	DeepBreaths      *int   `toml:"deep-breaths"`
	StabilitySeconds *int   `toml:"stability-seconds"`
}

// HistoryConfig maps history view settings.
type HistoryConfig struct {
	CurveWindow *int `toml:"curve-window"`
	Last        *int `toml:"last"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level      *string `toml:"level"`
	Format     *string `toml:"format"`
	File       *string `toml:"file"`
	MaxSize    *int    `toml:"max-size"`
	MaxBackups *int    `toml:"max-backups"`
	MaxAge     *int    `toml:"max-age"`
	Compress   *bool   `toml:"compress"`
}

// Defaults shared by the CLI flags and the config template.
const (
	DefaultChronoTrials     = 3
	DefaultNaturalCycles    = 4
	DefaultDeepBreaths      = 3
	DefaultStabilitySeconds = 30
	DefaultCurveWindow      = 10
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultLogMaxSize       = 10
	DefaultLogMaxBackups    = 3
	DefaultLogMaxAge        = 28
)

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// EnsureConfig writes the commented template to path unless a file exists.
// It reports whether a new file was created.
func EnsureConfig(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template()), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}

// Template returns the commented default config file.
func Template() string {
	return fmt.Sprintf(`# freqprofile configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# seed = 0                  # Fixed seed for tone pair order (0 = random)
# shuffle-tone = true       # Shuffle tone pairs and swap sides
# chrono-trials = %d         # "Estimate 10 seconds" trials (max 10)
# natural-cycles = %d        # Natural breath cycles to record
# deep-breaths = %d          # Deep inhale/exhale pairs to record
# stability-seconds = %d    # Duration of the tracking test

[history]
# curve-window = %d         # Moving average window for curves
# last = 0                  # Limit history to the last N results (0 = all)

[log]
# level = %q           # debug, info, warn, error
# format = %q       # console or json
# file = ""                 # Rotated JSON log file (empty = default path)
# max-size = %d             # Megabytes before rotation
# max-backups = %d           # Rotated files to keep
# max-age = %d              # Days to keep rotated files
# compress = false          # Gzip rotated files
`,
		DefaultChronoTrials,
		DefaultNaturalCycles,
		DefaultDeepBreaths,
		DefaultStabilitySeconds,
		DefaultCurveWindow,
		DefaultLogLevel,
		DefaultLogFormat,
		DefaultLogMaxSize,
		DefaultLogMaxBackups,
		DefaultLogMaxAge,
	)
}
