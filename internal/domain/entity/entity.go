// Package entity maps raw documents to typed entity values and back.
package entity

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

// Entity is one instance of a schema: an identity plus one value per param.
type Entity struct {
	schema *schema.Schema
	id     primitive.ObjectID
	values map[string]any
}

// Schema returns the schema the entity was built from.
func (e *Entity) Schema() *schema.Schema { return e.schema }

// ID returns the identity. It is the zero ObjectID until the entity is persisted.
func (e *Entity) ID() primitive.ObjectID { return e.id }

// HasID reports whether the entity has an identity.
func (e *Entity) HasID() bool { return !e.id.IsZero() }

// SetID attaches the store-assigned identity.
func (e *Entity) SetID(id primitive.ObjectID) { e.id = id }

// Get returns a field value by entity-facing name.
func (e *Entity) Get(name string) (any, bool) {
	if _, ok := e.schema.Param(name); !ok {
		return nil, false
	}
	return e.values[name], true
}

// Set assigns a field value. Present values go through the same coercion as loaded ones.
func (e *Entity) Set(name string, value any) error {
	p, ok := e.schema.Param(name)
	if !ok {
		return fmt.Errorf("entity %s has no field %q", e.schema.EntityType(), name)
	}
	if validation.IsNil(value) {
		e.values[name] = nil
		return nil
	}
	e.values[name] = coercePresent(p.Type(), value)
	return nil
}

// Values returns a copy of the field values keyed by entity-facing name.
func (e *Entity) Values() map[string]any {
	out := make(map[string]any, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// String returns a STRING field value, or "" when absent.
func (e *Entity) String(name string) string {
	s, _ := e.values[name].(string)
	return s
}

// Number returns a NUMBER field value as float64, or 0 when absent.
func (e *Entity) Number(name string) float64 {
	n, _ := validation.Number(e.values[name])
	return n
}

// Bool returns a BOOLEAN field value, or false when absent.
func (e *Entity) Bool(name string) bool {
	b, _ := e.values[name].(bool)
	return b
}

// Time returns a DATE field value, or the zero time when absent.
func (e *Entity) Time(name string) time.Time {
	t, _ := e.values[name].(time.Time)
	return t
}

// ObjectID returns an OBJECT_ID field value, or the zero ObjectID when absent.
func (e *Entity) ObjectID(name string) primitive.ObjectID {
	id, _ := e.values[name].(primitive.ObjectID)
	return id
}
