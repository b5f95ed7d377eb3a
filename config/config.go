// Package config loads the YAML configuration shared by the CLI and the
// HTTP front end.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"dwtwatermark"
	"dwtwatermark/codec"
)

// Config is read once at startup and not modified afterwards.
type Config struct {
	Alpha     float64 `yaml:"alpha"`
	Threshold float64 `yaml:"threshold"`

	WorkDir         string `yaml:"work_dir"`
	WatermarkedName string `yaml:"watermarked_name"`
	ExtractedName   string `yaml:"extracted_name"`
	JPEGQuality     int    `yaml:"jpeg_quality"`

	Info  bool `yaml:"info"`
	Human bool `yaml:"human"`

	Listen         string `yaml:"listen"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Alpha:           dwtwatermark.DefaultAlpha,
		Threshold:       dwtwatermark.DefaultThreshold,
		WorkDir:         ".",
		WatermarkedName: "watermarked_image.png",
		ExtractedName:   "extracted_watermark.png",
		JPEGQuality:     codec.DefaultJPEGQuality,
		Info:            true,
		Human:           true,
		Listen:          ":8080",
		MaxUploadBytes:  32 << 20,
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Alpha == 0 || math.IsNaN(c.Alpha) || math.IsInf(c.Alpha, 0):
		return fmt.Errorf("%w: alpha must be finite and non-zero", dwtwatermark.ErrConfiguration)
	case math.IsNaN(c.Threshold) || c.Threshold < -1 || c.Threshold > 1:
		return fmt.Errorf("%w: threshold must be within [-1, 1]", dwtwatermark.ErrConfiguration)
	case c.JPEGQuality < 1 || c.JPEGQuality > 100:
		return fmt.Errorf("%w: jpeg_quality must be within [1, 100]", dwtwatermark.ErrConfiguration)
	case c.WatermarkedName == "" || c.ExtractedName == "":
		return fmt.Errorf("%w: artifact names must not be empty", dwtwatermark.ErrConfiguration)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", dwtwatermark.ErrConfiguration)
	}
	return nil
}

// Watermarker builds a Watermarker from the configured alpha and threshold.
// extra options are applied after them.
func (c Config) Watermarker(extra ...dwtwatermark.Option) (*dwtwatermark.Watermarker, error) {
	opts := append([]dwtwatermark.Option{
		dwtwatermark.WithAlpha(c.Alpha),
		dwtwatermark.WithThreshold(c.Threshold),
	}, extra...)
	return dwtwatermark.New(opts...)
}
