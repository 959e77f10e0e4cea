// Package schema declares entity schemas: ordered, aliased, typed field descriptors
// bound to a collection, and the registry that holds them per entity type.
package schema

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

// ErrDefinition signals an invalid schema definition.
var ErrDefinition = errors.New("invalid schema definition")

// DefinitionError describes why a schema could not be defined.
type DefinitionError struct {
	EntityType string
	Param      string
	Reason     string
}

func (e *DefinitionError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s: %s", ErrDefinition.Error(), e.EntityType, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s: %s", ErrDefinition.Error(), e.EntityType, e.Param, e.Reason)
}

func (e *DefinitionError) Unwrap() error { return ErrDefinition }

// Schema is the immutable description of one entity type.
type Schema struct {
	entityType string
	collection string
	params     []Param
	byName     map[string]int
	byAlias    map[string]int
}

// New validates definitions and builds a Schema without registering it.
func New(entityType, collection string, defs ...Definition) (*Schema, error) {
	if entityType == "" {
		return nil, &DefinitionError{EntityType: entityType, Reason: "entity type is required"}
	}
	if collection == "" {
		return nil, &DefinitionError{EntityType: entityType, Reason: "collection name is required"}
	}

	s := &Schema{
		entityType: entityType,
		collection: collection,
		params:     make([]Param, 0, len(defs)),
		byName:     make(map[string]int, len(defs)),
		byAlias:    make(map[string]int, len(defs)),
	}

	for _, d := range defs {
		if d.Name == IDField {
			continue
		}
		p, err := normalize(entityType, d)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byName[p.name]; dup {
			return nil, &DefinitionError{EntityType: entityType, Param: p.name, Reason: "duplicate field name"}
		}
		if _, dup := s.byAlias[p.alias]; dup {
			return nil, &DefinitionError{EntityType: entityType, Param: p.name, Reason: fmt.Sprintf("duplicate alias %q", p.alias)}
		}
		s.byName[p.name] = len(s.params)
		s.byAlias[p.alias] = len(s.params)
		s.params = append(s.params, p)
	}
	return s, nil
}

// MustNew calls New and panics on error.
func MustNew(entityType, collection string, defs ...Definition) *Schema {
	s, err := New(entityType, collection, defs...)
	if err != nil {
		panic(err)
	}
	return s
}

// EntityType returns the entity type key.
func (s *Schema) EntityType() string { return s.entityType }

// Collection returns the collection name.
func (s *Schema) Collection() string { return s.collection }

// Params returns a copy of the ordered params.
func (s *Schema) Params() []Param {
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// Len returns the number of params.
func (s *Schema) Len() int { return len(s.params) }

// Param looks up a param by entity-facing name.
func (s *Schema) Param(name string) (Param, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// ParamByAlias looks up a param by document key.
func (s *Schema) ParamByAlias(alias string) (Param, bool) {
	i, ok := s.byAlias[alias]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// AliasOf maps an entity field name to its document key. Unknown names return ok=false.
func (s *Schema) AliasOf(name string) (string, bool) {
	p, ok := s.Param(name)
	if !ok {
		return "", false
	}
	return p.alias, true
}

func normalize(entityType string, d Definition) (Param, error) {
	fail := func(reason string) (Param, error) {
		return Param{}, &DefinitionError{EntityType: entityType, Param: d.Name, Reason: reason}
	}

	if d.Name == "" {
		return fail("field name is required")
	}
	if !d.Type.Valid() {
		return fail(fmt.Sprintf("unknown type %q", d.Type))
	}
	if !d.Default.allowedOn(d.Type) {
		return fail(fmt.Sprintf("default %s is not allowed on %s", d.Default.Sentinel(), d.Type))
	}
	if (d.Min != nil || d.Max != nil) && d.Type != Number {
		return fail("min/max apply to NUMBER fields only")
	}
	if (d.MinLength != nil || d.MaxLength != nil) && d.Type != String {
		return fail("minLength/maxLength apply to STRING fields only")
	}
	if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
		return fail("min is greater than max")
	}
	if d.MinLength != nil && *d.MinLength < 0 || d.MaxLength != nil && *d.MaxLength < 0 {
		return fail("length bounds must not be negative")
	}
	if d.MinLength != nil && d.MaxLength != nil && *d.MinLength > *d.MaxLength {
		return fail("minLength is greater than maxLength")
	}
	for i, v := range d.Validators {
		if v == nil {
			return fail(fmt.Sprintf("validator %d is nil", i))
		}
	}

	alias := d.Alias
	if alias == "" {
		alias = d.Name
	}
	if alias == IDField {
		return fail("alias _id is reserved")
	}

	return Param{
		name:     d.Name,
		alias:    alias,
		typ:      d.Type,
		required: d.Required,
		unique:   d.Unique,
		def:      d.Default,
		rules:    buildRules(d),
	}, nil
}

// buildRules lays out type-check, required, bounds, then custom validators.
func buildRules(d Definition) []validation.Rule {
	var rules []validation.Rule

	if d.Type != Mixed {
		rules = append(rules, validation.TypeCheck(d.Type.Accepts))
	}
	if d.Required {
		rules = append(rules, validation.Required(d.Type.IsEmpty))
	}
	switch d.Type {
	case Number:
		if d.Min != nil {
			rules = append(rules, validation.MinValue(*d.Min))
		}
		if d.Max != nil {
			rules = append(rules, validation.MaxValue(*d.Max))
		}
	case String:
		if d.MinLength != nil {
			rules = append(rules, validation.MinLength(*d.MinLength))
		}
		if d.MaxLength != nil {
			rules = append(rules, validation.MaxLength(*d.MaxLength))
		}
	}
	for _, v := range d.Validators {
		rules = append(rules, validation.Custom(v))
	}
	return rules
}
