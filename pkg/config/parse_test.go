package config

import (
	"strings"
	"testing"
)

const validYAML = `
log_level: debug
server:
  host: 127.0.0.1
  port: 9090
region:
  name: test-region
  sites_file: sites.yaml
optimisation:
  n_sensors: 5
  decay:
    kind: binary
    param: 500
  objectives:
    - column: workers
      weight: 0.3
    - column: residents
      weight: 0.7
      label: population
  population:
    size: 100
    generations: 200
    crossover_rate: 0.8
    mutation_rate: 0.1
    seed: 42
`

func TestParseConfigYAMLString(t *testing.T) {
	cfg, err := ParseConfigYAMLString(validYAML)
	if err != nil {
		t.Fatalf("ParseConfigYAMLString failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level debug, got %s", cfg.LogLevel)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Region.Name != "test-region" {
		t.Errorf("expected region test-region, got %s", cfg.Region.Name)
	}
	if cfg.Optimisation.NSensors != 5 {
		t.Errorf("expected 5 sensors, got %d", cfg.Optimisation.NSensors)
	}
	if cfg.Optimisation.Decay.Kind != "binary" || cfg.Optimisation.Decay.Param != 500 {
		t.Errorf("unexpected decay config: %+v", cfg.Optimisation.Decay)
	}
	if len(cfg.Optimisation.Objectives) != 2 {
		t.Fatalf("expected 2 objectives, got %d", len(cfg.Optimisation.Objectives))
	}
	if cfg.Optimisation.Objectives[1].Label != "population" {
		t.Errorf("expected label population, got %s", cfg.Optimisation.Objectives[1].Label)
	}
	if cfg.Optimisation.Population.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Optimisation.Population.Seed)
	}
}

func TestParseConfigYAMLDefaults(t *testing.T) {
	cfg, err := ParseConfigYAMLString(`
region:
  name: test
  sites_file: sites.yaml
`)
	if err != nil {
		t.Fatalf("ParseConfigYAMLString failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log_level info, got %s", cfg.LogLevel)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
}

func TestParseConfigYAMLStringInvalid(t *testing.T) {
	tests := []struct {
		name     string
		yamlText string
		wantErr  string
	}{
		{
			name: "bad log level",
			yamlText: `
log_level: verbose
region:
  name: test
  sites_file: sites.yaml
`,
			wantErr: "invalid log_level",
		},
		{
			name: "missing region name",
			yamlText: `
region:
  sites_file: sites.yaml
`,
			wantErr: "region name",
		},
		{
			name: "missing sites file",
			yamlText: `
region:
  name: test
`,
			wantErr: "sites_file",
		},
		{
			name: "bad decay kind",
			yamlText: `
region:
  name: test
  sites_file: sites.yaml
optimisation:
  n_sensors: 3
  decay:
    kind: gaussian
    param: 500
  objectives:
    - column: workers
      weight: 1
`,
			wantErr: "invalid decay kind",
		},
		{
			name: "non-positive decay param",
			yamlText: `
region:
  name: test
  sites_file: sites.yaml
optimisation:
  n_sensors: 3
  decay:
    kind: binary
    param: 0
  objectives:
    - column: workers
      weight: 1
`,
			wantErr: "decay param",
		},
		{
			name: "duplicate objective",
			yamlText: `
region:
  name: test
  sites_file: sites.yaml
optimisation:
  n_sensors: 3
  decay:
    kind: binary
    param: 500
  objectives:
    - column: workers
      weight: 1
    - column: workers
      weight: 2
`,
			wantErr: "duplicate objective",
		},
		{
			name: "population too small",
			yamlText: `
region:
  name: test
  sites_file: sites.yaml
optimisation:
  n_sensors: 3
  decay:
    kind: binary
    param: 500
  objectives:
    - column: workers
      weight: 1
  population:
    size: 1
    generations: 10
`,
			wantErr: "population size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigYAMLString(tt.yamlText)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseSiteTableYAML(t *testing.T) {
	table, err := ParseSiteTableYAML([]byte(`
region: test
ids: [a, b, c]
x: [0, 100, 200]
y: [0, 0, 0]
columns:
  workers: [10, 20, 30]
`))
	if err != nil {
		t.Fatalf("ParseSiteTableYAML failed: %v", err)
	}
	if table.Region != "test" || len(table.IDs) != 3 {
		t.Fatalf("unexpected table: %+v", table)
	}

	_, err = ParseSiteTableYAML([]byte(`
region: test
ids: [a, b]
x: [0]
y: [0, 0]
`))
	if err == nil || !strings.Contains(err.Error(), "not aligned") {
		t.Fatalf("expected alignment error, got %v", err)
	}

	_, err = ParseSiteTableYAML([]byte(`
region: test
ids: [a, b]
x: [0, 1]
y: [0, 0]
columns:
  workers: [1]
`))
	if err == nil || !strings.Contains(err.Error(), "column workers") {
		t.Fatalf("expected column length error, got %v", err)
	}
}
