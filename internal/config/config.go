// Package config collects every tunable constant the core needs —
// expression-tree bounds, synthesis budgets, parallelism, generation
// limits — into one immutable value, per spec §9 ("Global state →
// context objects"). A Config is built once per process (from
// defaults, a YAML file, and environment overrides) and threaded
// explicitly through every component; nothing in this module reads a
// package-level global.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the immutable configuration object shared by every
// component. Treat a *Config as read-only after Load/Default returns
// it — components that need a variant (e.g. EnableDiv=false for the
// constraint-rule synthesiser, spec §4.6) should copy it with
// WithDiv rather than mutate it in place.
type Config struct {
	// Tree enumeration bounds (C1), spec §4.1.
	MaxHeight int `yaml:"max_height"`
	MaxArgs   int `yaml:"max_args"`
	EnableDiv bool `yaml:"enable_div"`

	// Offline rule-mining layer (§5).
	Parallel int `yaml:"parallel"`

	// Per-OI synthesis budgets (§4.5, §4.6).
	ShapeRuleBudget      time.Duration `yaml:"shape_rule_budget"`
	ConstraintRuleBudget time.Duration `yaml:"constraint_rule_budget"`
	MaxShapeRules        int           `yaml:"max_shape_rules"`
	MaxConstraintRules   int           `yaml:"max_constraint_rules"`
	ZeroFilter           bool          `yaml:"zero_filter"`

	// Mutator thresholds (§4.4).
	MutatorSuccessCap    int      `yaml:"mutator_success_cap"`
	MutatorAllSubsetsCap int      `yaml:"mutator_all_subsets_cap"`
	MutatorSingleCap     int      `yaml:"mutator_single_cap"`
	MutatorPairCap       int      `yaml:"mutator_pair_cap"`
	SkipMutationAPIs     []string `yaml:"skip_mutation_apis"`

	// Graph generator (C9), spec §4.8.
	MaxElemPerTensor int           `yaml:"max_elem_per_tensor"`
	GenTimeout       time.Duration `yaml:"gen_timeout"`

	// SMT adapter (C2): every check is run under a wall-clock
	// timeout (§4.2); unknown is never treated as sat.
	SolverTimeout time.Duration `yaml:"solver_timeout"`

	// Device holds the DEVICE environment variable; no stage reads it,
	// and cmd/autoinfer always probes through oracle.DialectOracle.
	// PARALLEL, if set, overrides Parallel. Both are §6 environment
	// variables.
	Device string `yaml:"-"`
}

// Default returns the configuration implied by spec.md's hard
// ceilings and default budgets.
func Default() *Config {
	return &Config{
		MaxHeight:            5,
		MaxArgs:              5,
		EnableDiv:            true,
		Parallel:             32,
		ShapeRuleBudget:      100 * time.Second,
		ConstraintRuleBudget: 100 * time.Second,
		MaxShapeRules:        10,
		MaxConstraintRules:   50,
		ZeroFilter:           true,
		MutatorSuccessCap:    100,
		MutatorAllSubsetsCap: 8,
		MutatorSingleCap:     100,
		MutatorPairCap:       50,
		SkipMutationAPIs:     nil,
		MaxElemPerTensor:     1 << 16,
		GenTimeout:           2 * time.Second,
		SolverTimeout:        200 * time.Millisecond,
		Device:               "cpu",
	}
}

// Load reads a YAML configuration file and overlays it on top of
// Default(), then applies the DEVICE and PARALLEL environment
// variable overrides described in spec §6. An empty path returns
// Default() with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if device := os.Getenv("DEVICE"); device != "" {
		c.Device = device
	}
	if raw := os.Getenv("PARALLEL"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			c.Parallel = n
		}
	}
}

// WithDiv returns a shallow copy of c with EnableDiv set to enabled,
// leaving c itself unchanged.
func (c *Config) WithDiv(enabled bool) *Config {
	clone := *c
	clone.EnableDiv = enabled
	return &clone
}
