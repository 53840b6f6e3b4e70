// Package config holds the settings of a cubemap projection run.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/df07/go-cubemap-sh/pkg/sh"
)

// ErrInvalidConfig is returned for settings that cannot be used
var ErrInvalidConfig = errors.New("invalid config")

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains the settings of a projection run
type Config struct {
	Bands              int     `json:"bands"`                        // SH bands to project (0..3)
	MaxLaplacian       float64 `json:"maxLaplacian"`                 // Windowing bound on the Laplacian
	Extension          string  `json:"extension"`                    // Face file extension (px.<ext>, ...)
	Format             string  `json:"format"`                       // "text" or "json"
	Channel            int     `json:"channel"`                      // Extra single-channel dump, -1 disables
	CorrectedWindowing bool    `json:"correctedWindowing,omitempty"` // Use l²(l+1)² weights and the full m range
	Workers            int     `json:"workers,omitempty"`            // Face workers (0 = one per face)
	Verbose            bool    `json:"verbose,omitempty"`            // Debug logging
}

// Default returns the default settings: 3 bands, max Laplacian 1, .hdr faces
func Default() Config {
	return Config{
		Bands:        sh.MaxBands,
		MaxLaplacian: 1.0,
		Extension:    "hdr",
		Format:       FormatText,
		Channel:      -1,
	}
}

// Load reads a JSON config file. Fields missing from the file keep their
// default values; unknown fields are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes JSON config data on top of Default()
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks every setting. Band counts beyond sh.MaxBands report
// sh.ErrUnsupportedBands.
func (c Config) Validate() error {
	if err := sh.CheckBands(c.Bands); err != nil {
		return err
	}
	if math.IsNaN(c.MaxLaplacian) || math.IsInf(c.MaxLaplacian, 0) || c.MaxLaplacian <= 0 {
		return fmt.Errorf("%w: maxLaplacian must be a positive number, got %v", ErrInvalidConfig, c.MaxLaplacian)
	}
	if c.Extension == "" {
		return fmt.Errorf("%w: extension must not be empty", ErrInvalidConfig)
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.Channel < -1 || c.Channel > 2 {
		return fmt.Errorf("%w: channel must be -1, 0, 1 or 2, got %d", ErrInvalidConfig, c.Channel)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// LaplacianVariant returns the windowing solver variant
func (c Config) LaplacianVariant() sh.LaplacianVariant {
	if c.CorrectedWindowing {
		return sh.LaplacianCorrected
	}
	return sh.LaplacianOriginal
}
