// Package config loads pagelayout settings from YAML.
//
// A config file only needs the keys it changes; everything else keeps the
// value from Default:
//
//	assembly:
//	  merge_threshold: 0.6
//	  tie_break: highest_confidence
//	  label_policy:
//	    strong: [table, formula, code]
//	reading_order:
//	  spanning_threshold: 0.8
//	workers: 8
//	log_level: debug
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pagelayout/assembly"
	"github.com/tsawler/pagelayout/layout"
	"github.com/tsawler/pagelayout/model"
)

// ErrInvalid is returned when a configuration fails validation
var ErrInvalid = errors.New("invalid config")

// Config is the file representation of all tunables
type Config struct {
	Assembly     Assembly     `yaml:"assembly"`
	ReadingOrder ReadingOrder `yaml:"reading_order"`

	// Workers is the number of pages processed concurrently
	Workers int `yaml:"workers"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// Assembly mirrors assembly.Config
type Assembly struct {
	ContainmentThreshold float64           `yaml:"containment_threshold"`
	TieBreak             assembly.TieBreak `yaml:"tie_break"`
	MergeThreshold       float64           `yaml:"merge_threshold"`
	MaxIterations        int               `yaml:"max_iterations"`
	ProtectedLabels      []model.Label     `yaml:"protected_labels"`
	LabelPolicy          LabelPolicy       `yaml:"label_policy"`
	CheckInvariants      bool              `yaml:"check_invariants"`
}

// LabelPolicy mirrors assembly.LabelPolicy
type LabelPolicy struct {
	Strong []model.Label `yaml:"strong"`
	Weak   []model.Label `yaml:"weak"`
}

// ReadingOrder mirrors layout.ReadingOrderConfig
type ReadingOrder struct {
	MinOverlap        float64 `yaml:"min_overlap"`
	SpanningThreshold float64 `yaml:"spanning_threshold"`
}

// Default returns the built-in configuration
func Default() Config {
	a := assembly.DefaultConfig()
	return Config{
		Assembly: Assembly{
			ContainmentThreshold: a.ContainmentThreshold,
			TieBreak:             a.TieBreak,
			MergeThreshold:       a.MergeThreshold,
			MaxIterations:        a.MaxIterations,
			ProtectedLabels:      a.ProtectedLabels,
			LabelPolicy: LabelPolicy{
				Strong: a.LabelPolicy.Strong,
				Weak:   a.LabelPolicy.Weak,
			},
		},
		ReadingOrder: ReadingOrder{
			MinOverlap:        a.ReadingOrder.ColumnConfig.MinOverlap,
			SpanningThreshold: a.ReadingOrder.SpanningThreshold,
		},
		Workers:  runtime.NumCPU(),
		LogLevel: "info",
	}
}

// Load reads and validates a YAML file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and the log level
func (c Config) Validate() error {
	if err := c.AssemblyConfig(nil).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.ReadingOrder.MinOverlap < 0 {
		return fmt.Errorf("%w: min_overlap %v < 0", ErrInvalid, c.ReadingOrder.MinOverlap)
	}
	if c.ReadingOrder.SpanningThreshold > 1 {
		return fmt.Errorf("%w: spanning_threshold %v > 1", ErrInvalid, c.ReadingOrder.SpanningThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers %d < 1", ErrInvalid, c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// AssemblyConfig converts the file settings into a pipeline configuration
// that logs to logger
func (c Config) AssemblyConfig(logger *slog.Logger) assembly.Config {
	return assembly.Config{
		ContainmentThreshold: c.Assembly.ContainmentThreshold,
		TieBreak:             c.Assembly.TieBreak,
		MergeThreshold:       c.Assembly.MergeThreshold,
		MaxIterations:        c.Assembly.MaxIterations,
		ProtectedLabels:      c.Assembly.ProtectedLabels,
		LabelPolicy: assembly.LabelPolicy{
			Strong: c.Assembly.LabelPolicy.Strong,
			Weak:   c.Assembly.LabelPolicy.Weak,
		},
		ReadingOrder: layout.ReadingOrderConfig{
			ColumnConfig:      layout.ColumnConfig{MinOverlap: c.ReadingOrder.MinOverlap},
			SpanningThreshold: c.ReadingOrder.SpanningThreshold,
		},
		CheckInvariants: c.Assembly.CheckInvariants,
		Logger:          logger,
	}
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger returns a text logger writing to w at the configured level
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Marshal encodes the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
