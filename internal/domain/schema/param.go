package schema

import "github.com/kailas-cloud/entdoc/internal/domain/validation"

// IDField is the reserved identity key. It is never part of a schema's params.
const IDField = "_id"

// Definition is the declarative form of a field, normalized into a Param by Define.
type Definition struct {
	Name       string
	Type       Type
	Alias      string
	Required   bool
	Unique     bool
	Default    Default
	Min        *float64
	Max        *float64
	MinLength  *int
	MaxLength  *int
	Validators []validation.Validator
}

// Option adjusts a Definition.
type Option func(*Definition)

// Field declares a field. With no options it is the bare form:
// not required, not unique, aliased to its own name, no default.
func Field(name string, t Type, opts ...Option) Definition {
	d := Definition{Name: name, Type: t}
	for _, o := range opts {
		o(&d)
	}
	return d
}

// Required marks the field as required.
func Required() Option { return func(d *Definition) { d.Required = true } }

// Unique marks the field as unique across the collection.
func Unique() Option { return func(d *Definition) { d.Unique = true } }

// Alias stores the field under a different document key.
func Alias(alias string) Option { return func(d *Definition) { d.Alias = alias } }

// WithDefault sets the defaulting rule.
func WithDefault(def Default) Option { return func(d *Definition) { d.Default = def } }

// Min sets the lower bound of a NUMBER field.
func Min(n float64) Option { return func(d *Definition) { d.Min = &n } }

// Max sets the upper bound of a NUMBER field.
func Max(n float64) Option { return func(d *Definition) { d.Max = &n } }

// MinLength sets the minimum length of a STRING field.
func MinLength(n int) Option { return func(d *Definition) { d.MinLength = &n } }

// MaxLength sets the maximum length of a STRING field.
func MaxLength(n int) Option { return func(d *Definition) { d.MaxLength = &n } }

// Validate appends custom validators, run after the built-in rules in order.
func Validate(v ...validation.Validator) Option {
	return func(d *Definition) { d.Validators = append(d.Validators, v...) }
}

// Param is a normalized, immutable field descriptor.
type Param struct {
	name     string
	alias    string
	typ      Type
	required bool
	unique   bool
	def      Default
	rules    []validation.Rule
}

// Name returns the entity-facing field name.
func (p Param) Name() string { return p.name }

// Alias returns the document key.
func (p Param) Alias() string { return p.alias }

// Type returns the declared type.
func (p Param) Type() Type { return p.typ }

// Required reports whether the field is required.
func (p Param) Required() bool { return p.required }

// Unique reports whether the field must be unique.
func (p Param) Unique() bool { return p.unique }

// Default returns the defaulting rule.
func (p Param) Default() Default { return p.def }

// Rules returns a copy of the ordered rule list.
func (p Param) Rules() []validation.Rule {
	out := make([]validation.Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Check runs the field's rules against a value.
func (p Param) Check(value any) *validation.FieldError {
	return validation.Evaluate(p.rules, value, p.required)
}
