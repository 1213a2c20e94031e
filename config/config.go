// Package config loads the optional operator-weight and verbosity
// overrides used to reproduce fixed experiments without recompiling
// (spec §9, "--config weights.yaml"). It is loaded before the catalog so
// a run's cost model is fully pinned down before any CSV is read.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/Bonis98/Distributed-query/plan"
)

// Config is the optional weights.yaml document.
type Config struct {
	// Verbosity is read from the file but Load does not apply it, and
	// planc sets its log level from -v/--verbose only.
	Verbosity string `yaml:"verbosity"`

	// OpWeights overrides plan.OpWeight by operator name (spec §4.4's
	// op_weight table), e.g. "selection: 4". Unlisted operators keep
	// their builtin weight.
	OpWeights map[string]uint64 `yaml:"op_weights"`
}

// Load reads path and applies its OpWeights to plan.OpWeight in place. An
// empty path is not an error: it leaves the builtin weights untouched.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	for name, weight := range cfg.OpWeights {
		op, err := plan.ParseOpKind(name)
		if err != nil {
			return nil, err
		}
		plan.OpWeight[op] = weight
	}
	return cfg, nil
}
