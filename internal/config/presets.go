package config

var Presets = map[string]map[string]*Config{
	"normal": {
		"quick": {
			Target: "normal", Sampler: "nuts", StepSize: 0.5, MaxTreeDepth: 8,
			TargetAcceptance: 0.8, NSamples: 1000, NWarmup: 500,
		},
		"long": {
			Target: "normal", Sampler: "nuts", StepSize: 0.1, MaxTreeDepth: 10,
			TargetAcceptance: 0.8, NSamples: 5000, NWarmup: 1000,
		},
		"hmc": {
			Target: "normal", Sampler: "hmc", StepSize: 0.2, NSteps: 20,
			NSamples: 2000, NWarmup: 500,
		},
	},
	"gaussian2d": {
		"default": {
			Target: "gaussian2d", Sampler: "nuts", StepSize: 0.1, MaxTreeDepth: 10,
			TargetAcceptance: 0.8, NSamples: 2000, NWarmup: 1000,
		},
	},
	"banana": {
		"careful": {
			Target: "banana", Sampler: "nuts", StepSize: 0.05, MaxTreeDepth: 12,
			TargetAcceptance: 0.9, NSamples: 4000, NWarmup: 2000,
		},
	},
	"doublewell": {
		"multimodal": {
			Target: "doublewell", Sampler: "nuts", StepSize: 0.2, MaxTreeDepth: 10,
			TargetAcceptance: 0.8, NSamples: 5000, NWarmup: 1000, Chains: 4,
		},
	},
	"studentt": {
		"heavytail": {
			Target: "studentt", Sampler: "nuts", StepSize: 0.2, MaxTreeDepth: 10,
			TargetAcceptance: 0.85, NSamples: 4000, NWarmup: 1000,
		},
	},
}

func GetPreset(target, preset string) *Config {
	targetPresets, ok := Presets[target]
	if !ok {
		return nil
	}
	cfg, ok := targetPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(target string) []string {
	targetPresets, ok := Presets[target]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(targetPresets))
	for name := range targetPresets {
		names = append(names, name)
	}
	return names
}
