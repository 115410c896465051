package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes and validates it
func ParseConfigYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ParseConfigYAMLString parses a Config from a YAML string and validates it
func ParseConfigYAMLString(yamlText string) (*Config, error) {
	return ParseConfigYAML([]byte(yamlText))
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Region.Name == "" {
		return fmt.Errorf("region name cannot be empty")
	}
	if cfg.Region.SitesFile == "" {
		return fmt.Errorf("region sites_file cannot be empty")
	}

	if cfg.Optimisation != nil {
		if err := validateOptimisation(cfg.Optimisation); err != nil {
			return fmt.Errorf("optimisation validation failed: %w", err)
		}
	}

	return nil
}

func validateOptimisation(opt *Optimisation) error {
	if opt.NSensors < 1 {
		return fmt.Errorf("n_sensors must be positive, got %d", opt.NSensors)
	}

	switch opt.Decay.Kind {
	case "binary", "exponential":
	default:
		return fmt.Errorf("invalid decay kind: %s (must be binary or exponential)", opt.Decay.Kind)
	}
	if opt.Decay.Param <= 0 {
		return fmt.Errorf("decay param must be positive, got %g", opt.Decay.Param)
	}

	if len(opt.Objectives) == 0 {
		return fmt.Errorf("at least one objective must be defined")
	}
	seen := make(map[string]bool)
	for _, obj := range opt.Objectives {
		if obj.Column == "" {
			return fmt.Errorf("objective column cannot be empty")
		}
		if seen[obj.Column] {
			return fmt.Errorf("duplicate objective column: %s", obj.Column)
		}
		seen[obj.Column] = true
		if obj.Weight <= 0 {
			return fmt.Errorf("objective %s: weight must be positive, got %g", obj.Column, obj.Weight)
		}
	}

	if opt.Population != nil {
		if opt.Population.Size < 2 {
			return fmt.Errorf("population size must be at least 2, got %d", opt.Population.Size)
		}
		if opt.Population.Generations < 1 {
			return fmt.Errorf("generations must be positive, got %d", opt.Population.Generations)
		}
		if opt.Population.CrossoverRate < 0 || opt.Population.CrossoverRate > 1 {
			return fmt.Errorf("crossover_rate must be in [0, 1], got %g", opt.Population.CrossoverRate)
		}
		if opt.Population.MutationRate < 0 || opt.Population.MutationRate > 1 {
			return fmt.Errorf("mutation_rate must be in [0, 1], got %g", opt.Population.MutationRate)
		}
	}

	return nil
}
