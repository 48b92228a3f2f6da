// Package config loads the snap policy and logging settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/philipparndt/dimsnap/pkg/snap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file
type Config struct {
	Snap SnapConfig `yaml:"snap"`
	Log  LogConfig  `yaml:"log"`
}

// SnapConfig mirrors snap.Policy plus the default tolerance
type SnapConfig struct {
	TolerancePx            float64            `yaml:"tolerance_px"`
	DistanceWeight         float64            `yaml:"distance_weight"`
	StableReferenceBonus   float64            `yaml:"stable_reference_bonus"`
	VisibleBonus           float64            `yaml:"visible_bonus"`
	StickinessBonus        float64            `yaml:"stickiness_bonus"`
	SwitchThreshold        float64            `yaml:"switch_threshold"`
	SameReferenceTolerance float64            `yaml:"same_reference_tolerance"`
	Priority               map[string]float64 `yaml:"priority,omitempty"` // kind name -> weight, missing kinds keep defaults
}

// LogConfig selects the zap preset and level
type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

var priorityKeys = []string{"point", "intersection", "center", "edge", "face", "other"}

// Default returns the configuration used when no file is present
func Default() Config {
	p := snap.DefaultPolicy()
	return Config{
		Snap: SnapConfig{
			TolerancePx:            snap.DefaultSnapTolerancePx,
			DistanceWeight:         p.DistanceWeight,
			StableReferenceBonus:   p.StableReferenceBonus,
			VisibleBonus:           p.VisibleBonus,
			StickinessBonus:        p.StickinessBonus,
			SwitchThreshold:        p.SwitchThreshold,
			SameReferenceTolerance: p.SameReferenceTolerance,
		},
		Log: LogConfig{
			Mode:  "development",
			Level: "info",
		},
	}
}

// Load reads the config at path on top of the defaults.
// A missing file yields the defaults; an empty path does too.
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
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Log.Mode = strings.ToLower(strings.TrimSpace(cfg.Log.Mode))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the tolerance, the priority kind names and the resulting policy
func (c Config) Validate() error {
	var errs []error

	t := c.Snap.TolerancePx
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		errs = append(errs, fmt.Errorf("tolerance_px must be a non-negative number, got %v", t))
	}

	for name := range c.Snap.Priority {
		if !slices.Contains(priorityKeys, name) {
			errs = append(errs, fmt.Errorf("unknown priority kind %q", name))
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Mode)) {
	case "", "dev", "development", "prod", "production":
	default:
		errs = append(errs, fmt.Errorf("unknown log mode %q", c.Log.Mode))
	}

	if level := strings.ToLower(strings.TrimSpace(c.Log.Level)); level != "" {
		if _, err := zapcore.ParseLevel(level); err != nil {
			errs = append(errs, fmt.Errorf("invalid log level: %w", err))
		}
	}

	if err := c.Policy().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Policy converts the snap section into a snap.Policy
func (c Config) Policy() snap.Policy {
	p := snap.DefaultPolicy()
	p.DistanceWeight = c.Snap.DistanceWeight
	p.StableReferenceBonus = c.Snap.StableReferenceBonus
	p.VisibleBonus = c.Snap.VisibleBonus
	p.StickinessBonus = c.Snap.StickinessBonus
	p.SwitchThreshold = c.Snap.SwitchThreshold
	p.SameReferenceTolerance = c.Snap.SameReferenceTolerance

	for name, w := range c.Snap.Priority {
		switch name {
		case "point":
			p.Priority.Point = w
		case "intersection":
			p.Priority.Intersection = w
		case "center":
			p.Priority.Center = w
		case "edge":
			p.Priority.Edge = w
		case "face":
			p.Priority.Face = w
		case "other":
			p.Priority.Other = w
		}
	}
	return p
}

// Effective returns a copy with every priority weight spelled out
func (c Config) Effective() Config {
	p := c.Policy()
	c.Snap.Priority = map[string]float64{
		"point":        p.Priority.Point,
		"intersection": p.Priority.Intersection,
		"center":       p.Priority.Center,
		"edge":         p.Priority.Edge,
		"face":         p.Priority.Face,
		"other":        p.Priority.Other,
	}
	return c
}

// Marshal renders the effective configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c.Effective())
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
