package floorplan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tdewolff/floorplan/clip"
	"gopkg.in/yaml.v3"
)

// Config configures an Editor. It is usually loaded from a YAML file.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// MaxUndo bounds the number of undo steps, zero means unbounded.
	MaxUndo int `yaml:"max_undo"`

	// Compose merges consecutive edits of the same kind, such as the steps of a drag, into one undo step.
	Compose bool `yaml:"compose"`

	// FillRule is the fill rule of the outlines that are united into faces: nonzero, evenodd, positive or negative.
	FillRule string `yaml:"fill_rule"`

	// MaxEdges bounds the number of edges per polygon set of the kernel.
	MaxEdges int `yaml:"max_edges"`

	// PreserveCollinear keeps collinear vertices in faces and holes.
	PreserveCollinear bool `yaml:"preserve_collinear"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		MaxUndo:  100,
		FillRule: "nonzero",
		MaxEdges: clip.MaxEdges,
	}
}

// LoadConfig reads a YAML configuration file. Keys that are absent keep their default value.
func LoadConfig(filename string) (Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// ParseConfig parses a YAML configuration. Unknown keys are an error.
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error if any setting is out of range.
func (cfg Config) Validate() error {
	if _, err := cfg.Level(); err != nil {
		return err
	} else if _, err := cfg.ClipOptions(); err != nil {
		return err
	} else if cfg.MaxUndo < 0 {
		return fmt.Errorf("negative max_undo %d", cfg.MaxUndo)
	} else if cfg.MaxEdges < 0 || clip.MaxEdges < cfg.MaxEdges {
		return fmt.Errorf("max_edges %d out of range [0,%d]", cfg.MaxEdges, clip.MaxEdges)
	}
	return nil
}

// Level returns the log level.
func (cfg Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// ClipOptions returns the options of the polygon kernel.
func (cfg Config) ClipOptions() (clip.Options, error) {
	fillRule, err := clip.ParseFillRule(cfg.FillRule)
	if err != nil {
		return clip.Options{}, err
	}
	return clip.Options{
		SubjectFill:       fillRule,
		ClipFill:          clip.NonZero,
		PreserveCollinear: cfg.PreserveCollinear,
		MaxEdges:          cfg.MaxEdges,
	}, nil
}
