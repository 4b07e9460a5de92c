// Package config loads the YAML configuration of the strokefit command.
package config

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/flux3dp/strokefit"
)

// Config is the on-disk configuration. Fields left out of the file keep
// their [Default] values.
type Config struct {
	// Mode is "linear" or "bezier".
	Mode    string        `yaml:"mode"`
	Fit     FitConfig     `yaml:"fit"`
	SVG     SVGConfig     `yaml:"svg"`
	Preview PreviewConfig `yaml:"preview"`
}

type FitConfig struct {
	// CornerAngle is in degrees.
	CornerAngle   float64 `yaml:"corner_angle"`
	LengthDivisor float64 `yaml:"length_divisor"`
	MaxRunLength  float64 `yaml:"max_run_length"`
	ErrorDivisor  float64 `yaml:"error_divisor"`
	MaxIterations int     `yaml:"max_iterations"`
}

type SVGConfig struct {
	Precision      int  `yaml:"precision"`
	DropDegenerate bool `yaml:"drop_degenerate"`
	Close          bool `yaml:"close"`
}

type PreviewConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	StrokeWidth float64 `yaml:"stroke_width"`
	Padding     int     `yaml:"padding"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	o := strokefit.DefaultFitOptions
	return Config{
		Mode: strokefit.ModeBezier.String(),
		Fit: FitConfig{
			CornerAngle:   o.CornerAngle * 180 / math.Pi,
			LengthDivisor: o.LengthDivisor,
			MaxRunLength:  o.MaxRunLength,
			ErrorDivisor:  o.ErrorDivisor,
			MaxIterations: o.MaxIterations,
		},
		SVG: SVGConfig{
			Precision:      2,
			DropDegenerate: true,
		},
		Preview: PreviewConfig{
			Width:       512,
			Height:      512,
			StrokeWidth: 2,
			Padding:     8,
		},
	}
}

// Load reads the configuration at path. An empty path or a missing file
// yields [Default].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks that the configuration describes a usable fitter and
// preview.
func (c Config) Validate() error {
	if _, err := strokefit.ParseFitMode(c.Mode); err != nil {
		return err
	}
	if err := c.FitOptions().Validate(); err != nil {
		return err
	}
	if c.SVG.Precision < 0 {
		return errors.Errorf("svg precision %d is negative", c.SVG.Precision)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return errors.Errorf("preview size %dx%d is not positive", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.StrokeWidth <= 0 {
		return errors.Errorf("preview stroke width %g is not positive", c.Preview.StrokeWidth)
	}
	if 2*c.Preview.Padding >= min(c.Preview.Width, c.Preview.Height) {
		return errors.Errorf("preview padding %d leaves no room to draw", c.Preview.Padding)
	}
	return nil
}

func (c Config) FitOptions() strokefit.FitOptions {
	return strokefit.FitOptions{
		CornerAngle:   c.Fit.CornerAngle * math.Pi / 180,
		LengthDivisor: c.Fit.LengthDivisor,
		MaxRunLength:  c.Fit.MaxRunLength,
		ErrorDivisor:  c.Fit.ErrorDivisor,
		MaxIterations: c.Fit.MaxIterations,
	}
}

func (c Config) SVGOptions() strokefit.SVGOptions {
	return strokefit.SVGOptions{
		MaxPrecision:   c.SVG.Precision,
		DropDegenerate: c.SVG.DropDegenerate,
		Close:          c.SVG.Close,
	}
}

// Fitter returns the fitter described by the configuration. It assumes
// Validate succeeded.
func (c Config) Fitter() strokefit.Fitter {
	mode, _ := strokefit.ParseFitMode(c.Mode)
	return strokefit.Fitter{Mode: mode, Options: c.FitOptions()}
}
