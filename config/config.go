// Package config loads the YAML configuration of the speechcommands tool.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neurlang/speechcommands/datasets/speechcommands"
	"github.com/neurlang/speechcommands/learning"
	"github.com/neurlang/speechcommands/model"
	"github.com/neurlang/speechcommands/spectrogram"
)

// Config stores the application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Dataset
	DataDir           string  `yaml:"data_dir"`
	ArchiveURL        string  `yaml:"archive_url"`
	ArchiveSHA256     string  `yaml:"archive_sha256"`
	ValidationPercent float64 `yaml:"validation_percent"`
	TestingPercent    float64 `yaml:"testing_percent"`

	// Feature cache, an empty CacheDir keeps badger in memory
	CacheDir  string `yaml:"cache_dir"`
	CacheSize int    `yaml:"cache_size"`

	// Frontend
	SampleRate int     `yaml:"sample_rate"`
	ClipMs     int     `yaml:"clip_ms"`
	StepMs     float64 `yaml:"step_ms"`
	WindowMs   float64 `yaml:"window_ms"`
	MaxFreq    float64 `yaml:"max_freq"`

	// Batches
	BatchSize     int   `yaml:"batch_size"`
	ShuffleBuffer int   `yaml:"shuffle_buffer"` // zero keeps the file order
	Prefetch      int   `yaml:"prefetch"`
	Seed          int64 `yaml:"seed"`

	// Training
	Epochs    int    `yaml:"epochs"`
	Threads   int    `yaml:"threads"`
	ModelPath string `yaml:"model_path"`
	Grid      int    `yaml:"grid"`
	Levels    int    `yaml:"levels"`
}

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	p := spectrogram.DefaultParams()
	a := model.DefaultArchitecture()
	return &Config{
		LogLevel:          "info",
		DataDir:           "data",
		ArchiveURL:        speechcommands.ArchiveURL,
		ValidationPercent: 10,
		TestingPercent:    10,
		CacheSize:         4096,
		SampleRate:        16000,
		ClipMs:            1000,
		StepMs:            p.StepMs,
		WindowMs:          p.WindowMs,
		MaxFreq:           p.MaxFreq,
		BatchSize:         32,
		ShuffleBuffer:     1000,
		Prefetch:          2,
		Epochs:            10,
		Threads:           learning.Defaults().Threads,
		ModelPath:         "speechcommands.model",
		Grid:              a.Grid,
		Levels:            a.Levels,
	}
}

// Load loads the configuration from the given file path on top of Default.
func Load(filePath string) (*Config, error) {
	cfg := Default()
	if filePath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return errors.New("sample_rate must be positive")
	case c.ClipMs < 0:
		return errors.New("clip_ms is negative")
	case c.BatchSize <= 0:
		return errors.New("batch_size must be positive")
	case c.ValidationPercent < 0 || c.TestingPercent < 0 || c.ValidationPercent+c.TestingPercent >= 100:
		return fmt.Errorf("validation_percent %g and testing_percent %g leave no training data", c.ValidationPercent, c.TestingPercent)
	}
	return nil
}

// Params are the spectrogram parameters
func (c *Config) Params() spectrogram.Params {
	p := spectrogram.DefaultParams()
	p.StepMs = c.StepMs
	p.WindowMs = c.WindowMs
	p.MaxFreq = c.MaxFreq
	return p
}

// Frontend is the audio frontend of new models
func (c *Config) Frontend() model.Frontend {
	return model.Frontend{SampleRate: c.SampleRate, ClipMs: c.ClipMs, Params: c.Params()}
}

// Architecture is the architecture of new models
func (c *Config) Architecture() model.Architecture {
	return model.Architecture{Grid: c.Grid, Levels: c.Levels}
}
