package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration. Environment variables in the content are
// expanded before parsing.
func Parse(data []byte) (*File, error) {
	var f File
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if f.Services == nil {
		f.Services = make(map[string]Service)
	}
	if f.Defaults.MaxAttempts == 0 {
		f.Defaults.MaxAttempts = 3
	}

	for name, svc := range f.Services {
		merged := svc.merged(f.Defaults)
		if _, err := merged.BackoffConfig(); err != nil {
			return nil, fmt.Errorf("service %q: %w", name, err)
		}
		if merged.JitterFactor < 0 || merged.JitterFactor > 1 {
			return nil, fmt.Errorf("service %q: jitter_factor must be in [0, 1]", name)
		}
	}

	return &f, nil
}
