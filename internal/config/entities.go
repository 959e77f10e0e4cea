package config

import "fmt"

// EntityConfig declares an entity type served by the admin API.
type EntityConfig struct {
	Type       string        `yaml:"type"`
	Collection string        `yaml:"collection"`
	Fields     []FieldConfig `yaml:"fields"`
}

// FieldConfig declares one field of an entity type.
//
// Default is either a literal value or one of the sentinels
// NULL, NOW, UUID_V1, UUID_V4 given as {sentinel: NAME}.
type FieldConfig struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`
	Alias     string         `yaml:"alias"`
	Required  bool           `yaml:"required"`
	Unique    bool           `yaml:"unique"`
	Min       *float64       `yaml:"min"`
	Max       *float64       `yaml:"max"`
	MinLength *int           `yaml:"min_length"`
	MaxLength *int           `yaml:"max_length"`
	Default   *DefaultConfig `yaml:"default"`
}

// DefaultConfig is a field default: a static value or a named sentinel.
type DefaultConfig struct {
	Value    any    `yaml:"value"`
	Sentinel string `yaml:"sentinel"`
}

func (c *Config) validateEntities() error {
	seen := make(map[string]struct{}, len(c.Entities))
	for i, e := range c.Entities {
		if e.Type == "" {
			return fmt.Errorf("entities[%d].type is required", i)
		}
		if e.Collection == "" {
			return fmt.Errorf("entities[%d].collection is required", i)
		}
		if _, dup := seen[e.Type]; dup {
			return fmt.Errorf("entities[%d]: duplicate type %q", i, e.Type)
		}
		seen[e.Type] = struct{}{}

		for j, f := range e.Fields {
			if f.Name == "" || f.Type == "" {
				return fmt.Errorf("entities[%d].fields[%d]: name and type are required", i, j)
			}
			if f.Default != nil && f.Default.Sentinel != "" && f.Default.Value != nil {
				return fmt.Errorf("entities[%d].fields[%d]: default takes a value or a sentinel, not both", i, j)
			}
		}
	}
	return nil
}
