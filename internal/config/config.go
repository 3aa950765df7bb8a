package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStepSize         = 0.1
	DefaultMaxTreeDepth     = 10
	DefaultTargetAcceptance = 0.8
	DefaultNSteps           = 20
	DefaultNSamples         = 2000
	DefaultNWarmup          = 1000
	DefaultThin             = 1
	DefaultChains           = 1
)

type Config struct {
	Target           string               `yaml:"target"`
	Sampler          string               `yaml:"sampler"`
	StepSize         float64              `yaml:"step_size"`
	MaxTreeDepth     int                  `yaml:"max_tree_depth"`
	TargetAcceptance float64              `yaml:"target_acceptance"`
	NSteps           int                  `yaml:"n_steps"`
	NSamples         int                  `yaml:"n_samples"`
	NWarmup          int                  `yaml:"n_warmup"`
	Thin             int                  `yaml:"thin"`
	Seed             int64                `yaml:"seed"`
	Chains           int                  `yaml:"chains"`
	InitValues       map[string][]float64 `yaml:"init_values"`
}

func DefaultConfig() *Config {
	return &Config{
		Target:           "normal",
		Sampler:          "nuts",
		StepSize:         DefaultStepSize,
		MaxTreeDepth:     DefaultMaxTreeDepth,
		TargetAcceptance: DefaultTargetAcceptance,
		NSteps:           DefaultNSteps,
		NSamples:         DefaultNSamples,
		NWarmup:          DefaultNWarmup,
		Thin:             DefaultThin,
		Chains:           DefaultChains,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
