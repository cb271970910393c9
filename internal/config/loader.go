package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/rosterscan/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if RSCAN_CONFIG is set
//  3. env (prefix RSCAN_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("RSCAN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RSCAN_FRAMES_DIR, RSCAN_WORKER_COUNT, ...
	// Map env keys like RSCAN_WORKER_COUNT -> worker_count (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RSCAN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rscan_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	if c.FramesDir == "" {
		return fmt.Errorf("%w: frames_dir must not be empty", ErrInvalidConfig)
	}
	if c.ExportDir == "" {
		return fmt.Errorf("%w: export_dir must not be empty", ErrInvalidConfig)
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("%w: metrics must not be empty", ErrInvalidConfig)
	}
	for _, m := range c.Metrics {
		if _, err := model.ParseMetric(m); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if _, err := model.ParseMetric(c.PrimaryMetric); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	primaryScanned := false
	for _, m := range c.Metrics {
		if m == c.PrimaryMetric {
			primaryScanned = true
			break
		}
	}
	if !primaryScanned {
		return fmt.Errorf("%w: primary_metric %q must be one of metrics", ErrInvalidConfig, c.PrimaryMetric)
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("%w: confidence_floor must be within [0,1]", ErrInvalidConfig)
	}
	if c.DupeThreshold <= 0 || c.DupeThreshold > 1 {
		return fmt.Errorf("%w: dupe_threshold must be within (0,1]", ErrInvalidConfig)
	}
	if c.ValueTolerance < c.ValueNearIdentical {
		return fmt.Errorf("%w: value_tolerance must not be below value_near_identical", ErrInvalidConfig)
	}
	if c.NameSimStrict < c.NameSimRelaxed || c.NameSimRelaxed < c.NameSimLoose || c.NameSimLoose < c.NameSimLastResort {
		return fmt.Errorf("%w: name similarity thresholds must be ordered strict >= relaxed >= loose >= last_resort", ErrInvalidConfig)
	}
	return nil
}
