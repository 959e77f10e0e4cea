package main

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/entdoc/internal/config"
	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

func ptr[T any](v T) *T { return &v }

func TestDefineEntities(t *testing.T) {
	reg := schema.NewRegistry()
	err := defineEntities(reg, []config.EntityConfig{{
		Type:       "user",
		Collection: "users",
		Fields: []config.FieldConfig{
			{Name: "name", Type: "string", Required: true, MinLength: ptr(3)},
			{Name: "email", Type: "STRING", Alias: "mail", Unique: true},
			{Name: "age", Type: "NUMBER", Min: ptr(17.0), Default: &config.DefaultConfig{Value: 18}},
			{Name: "created_at", Type: "DATE", Default: &config.DefaultConfig{Sentinel: "now"}},
		},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sc, ok := reg.Lookup("user")
	if !ok || sc.Collection() != "users" {
		t.Fatalf("lookup = %v, %v", sc, ok)
	}
	email, _ := sc.Param("email")
	if email.Alias() != "mail" || !email.Unique() {
		t.Errorf("email = %+v", email)
	}

	e := domentity.New(sc, map[string]any{"name": "alice"})
	if e.Number("age") != 18 {
		t.Errorf("age default = %v", e.Number("age"))
	}
	if e.Time("created_at").IsZero() || time.Since(e.Time("created_at")) > time.Minute {
		t.Errorf("created_at default = %v", e.Time("created_at"))
	}
}

func TestDefineEntities_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field config.FieldConfig
	}{
		{"unknown type", config.FieldConfig{Name: "a", Type: "TEXT"}},
		{"unknown sentinel", config.FieldConfig{Name: "a", Type: "STRING", Default: &config.DefaultConfig{Sentinel: "LATER"}}},
		{"now on string", config.FieldConfig{Name: "a", Type: "STRING", Default: &config.DefaultConfig{Sentinel: "NOW"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := defineEntities(schema.NewRegistry(), []config.EntityConfig{
				{Type: "thing", Collection: "things", Fields: []config.FieldConfig{tc.field}},
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.name != "unknown sentinel" && !errors.Is(err, schema.ErrDefinition) {
				t.Errorf("expected ErrDefinition, got %v", err)
			}
		})
	}
}
