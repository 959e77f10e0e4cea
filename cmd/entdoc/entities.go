package main

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/entdoc/internal/config"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

var sentinels = map[string]schema.Default{
	string(schema.SentinelNull):   schema.Null,
	string(schema.SentinelNow):    schema.Now,
	string(schema.SentinelUUIDv1): schema.UUIDv1,
	string(schema.SentinelUUIDv4): schema.UUIDv4,
}

// defineEntities registers every configured entity type in reg.
func defineEntities(reg *schema.Registry, entities []config.EntityConfig) error {
	for _, e := range entities {
		defs := make([]schema.Definition, 0, len(e.Fields))
		for _, f := range e.Fields {
			d, err := fieldDefinition(f)
			if err != nil {
				return fmt.Errorf("entity %s: %w", e.Type, err)
			}
			defs = append(defs, d)
		}
		if _, err := reg.Define(e.Type, e.Collection, defs...); err != nil {
			return err
		}
	}
	return nil
}

func fieldDefinition(f config.FieldConfig) (schema.Definition, error) {
	var opts []schema.Option
	if f.Alias != "" {
		opts = append(opts, schema.Alias(f.Alias))
	}
	if f.Required {
		opts = append(opts, schema.Required())
	}
	if f.Unique {
		opts = append(opts, schema.Unique())
	}
	if f.Min != nil {
		opts = append(opts, schema.Min(*f.Min))
	}
	if f.Max != nil {
		opts = append(opts, schema.Max(*f.Max))
	}
	if f.MinLength != nil {
		opts = append(opts, schema.MinLength(*f.MinLength))
	}
	if f.MaxLength != nil {
		opts = append(opts, schema.MaxLength(*f.MaxLength))
	}
	if f.Default != nil {
		if f.Default.Sentinel != "" {
			def, ok := sentinels[strings.ToUpper(f.Default.Sentinel)]
			if !ok {
				return schema.Definition{}, fmt.Errorf("field %s: unknown default sentinel %q", f.Name, f.Default.Sentinel)
			}
			opts = append(opts, schema.WithDefault(def))
		} else if f.Default.Value != nil {
			opts = append(opts, schema.WithDefault(schema.Static(f.Default.Value)))
		}
	}
	return schema.Field(f.Name, schema.Type(strings.ToUpper(f.Type)), opts...), nil
}
