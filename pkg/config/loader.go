package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/urbansense/placement-core/pkg/models"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadSiteTable loads and parses a candidate site table file
func LoadSiteTable(path string) (*models.SiteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file %s: %w", path, err)
	}
	table, err := ParseSiteTableYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sites file %s: %w", path, err)
	}
	return table, nil
}

// ParseSiteTableYAML parses a site table from YAML bytes and validates its
// alignment. Deeper validation happens when the table becomes a site set.
func ParseSiteTableYAML(data []byte) (*models.SiteTable, error) {
	var table models.SiteTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse site table yaml: %w", err)
	}

	if err := validateSiteTable(&table); err != nil {
		return nil, fmt.Errorf("invalid site table: %w", err)
	}

	return &table, nil
}

func validateSiteTable(table *models.SiteTable) error {
	if table.Region == "" {
		return fmt.Errorf("region cannot be empty")
	}
	n := len(table.IDs)
	if n == 0 {
		return fmt.Errorf("site table has no sites")
	}
	if len(table.X) != n || len(table.Y) != n {
		return fmt.Errorf("coordinates not aligned: %d ids, %d x, %d y", n, len(table.X), len(table.Y))
	}
	for name, values := range table.Columns {
		if len(values) != n {
			return fmt.Errorf("column %s has %d values, expected %d", name, len(values), n)
		}
	}
	return nil
}
