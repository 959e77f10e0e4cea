package entdoc

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	entityuc "github.com/kailas-cloud/entdoc/internal/usecase/entity"
)

const tagKey = "entdoc"

// Model binds a schema to a Go struct. Fields are mapped through
// `entdoc:"name"` tags; the identity goes in a field tagged `entdoc:"_id"`
// of type primitive.ObjectID or string (hex).
type Model[T any] struct {
	schema   *schema.Schema
	entities *entityuc.Service
	meta     *modelMeta
}

// modelMeta holds parsed struct tag metadata, cached per Model.
type modelMeta struct {
	typ    reflect.Type
	idIdx  int // -1 if the struct carries no identity
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

// NewModel parses T's tags against s. Every tagged name must be a field of s.
func NewModel[T any](c *Client, s *Schema) (*Model[T], error) {
	meta, err := parseModel[T](s)
	if err != nil {
		return nil, fmt.Errorf("new model %s: %w", s.EntityType(), err)
	}
	return &Model[T]{schema: s, entities: c.entities, meta: meta}, nil
}

func parseModel[T any](s *schema.Schema) (*modelMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entdoc: type %v is not a struct", t)
	}

	meta := &modelMeta{typ: t, idIdx: -1}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get(tagKey)
		if name == "" || name == "-" {
			continue
		}
		if name == schema.IDField {
			if meta.idIdx != -1 {
				return nil, fmt.Errorf("entdoc: duplicate _id tag on field %s", f.Name)
			}
			if f.Type != reflect.TypeOf(primitive.ObjectID{}) && f.Type.Kind() != reflect.String {
				return nil, fmt.Errorf("entdoc: _id field %s must be primitive.ObjectID or string", f.Name)
			}
			meta.idIdx = i
			continue
		}
		if _, ok := s.Param(name); !ok {
			return nil, fmt.Errorf("entdoc: field %s maps to %q, which %s does not define", f.Name, name, s.EntityType())
		}
		meta.fields = append(meta.fields, fieldMapping{structIdx: i, name: name})
	}
	return meta, nil
}

// toEntity builds an entity from a struct value. Empty strings, zero times
// and zero ObjectIDs count as absent so defaults apply; numbers and bools
// are always passed through.
func (m *modelMeta) toEntity(s *schema.Schema, item reflect.Value) (*domentity.Entity, error) {
	data := make(map[string]any, len(m.fields))
	for _, fm := range m.fields {
		f := item.Field(fm.structIdx)
		if unset(f) {
			continue
		}
		data[fm.name] = f.Interface()
	}
	e := domentity.New(s, data)

	if m.idIdx == -1 {
		return e, nil
	}
	f := item.Field(m.idIdx)
	if f.Kind() != reflect.String {
		e.SetID(f.Interface().(primitive.ObjectID))
		return e, nil
	}
	if hex := f.String(); hex != "" {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid _id %q: %w", hex, err)
		}
		e.SetID(oid)
	}
	return e, nil
}

// setID writes the entity identity back into the struct.
func (m *modelMeta) setID(item reflect.Value, id primitive.ObjectID) {
	if m.idIdx == -1 {
		return
	}
	f := item.Field(m.idIdx)
	if f.Kind() == reflect.String {
		f.SetString(id.Hex())
		return
	}
	f.Set(reflect.ValueOf(id))
}

// fromEntity fills a new T from an entity. Values that cannot be
// converted to the struct field's type are left zero.
func (m *modelMeta) fromEntity(e *domentity.Entity) reflect.Value {
	v := reflect.New(m.typ).Elem()
	if e.HasID() {
		m.setID(v, e.ID())
	}
	for _, fm := range m.fields {
		val, _ := e.Get(fm.name)
		assign(v.Field(fm.structIdx), val)
	}
	return v
}

func assign(dst reflect.Value, val any) {
	if val == nil {
		return
	}
	src := reflect.ValueOf(val)
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case isNumeric(src.Kind()) && isNumeric(dst.Kind()):
		dst.Set(src.Convert(dst.Type()))
	case dst.Kind() == reflect.Slice && src.Kind() == reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			assign(out.Index(i), src.Index(i).Interface())
		}
		dst.Set(out)
	case dst.Type() == reflect.TypeOf(time.Time{}):
		if t, ok := val.(primitive.DateTime); ok {
			dst.Set(reflect.ValueOf(t.Time().UTC()))
		}
	}
}

func unset(v reflect.Value) bool {
	switch v.Type() {
	case reflect.TypeOf(time.Time{}), reflect.TypeOf(primitive.ObjectID{}):
		return v.IsZero()
	}
	return v.Kind() == reflect.String && v.Len() == 0
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Insert validates and writes item, then stores the assigned identity in it.
func (m *Model[T]) Insert(ctx context.Context, item *T) error {
	v := reflect.ValueOf(item).Elem()
	e, err := m.meta.toEntity(m.schema, v)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if err := m.entities.Insert(ctx, e); err != nil {
		return err
	}
	m.meta.setID(v, e.ID())
	return nil
}

// Update validates item and overwrites the stored document with its identity.
func (m *Model[T]) Update(ctx context.Context, item T) error {
	e, err := m.meta.toEntity(m.schema, reflect.ValueOf(item))
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return m.entities.Update(ctx, e)
}

// Remove deletes the stored document of item.
func (m *Model[T]) Remove(ctx context.Context, item T) error {
	e, err := m.meta.toEntity(m.schema, reflect.ValueOf(item))
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	_, err = m.entities.Remove(ctx, e)
	return err
}

// Find returns one page of items matching where.
func (m *Model[T]) Find(ctx context.Context, where Where, opts FindOptions) ([]T, error) {
	list, err := m.entities.Find(ctx, m.schema, where, opts)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(list))
	for i, e := range list {
		out[i] = m.meta.fromEntity(e).Interface().(T)
	}
	return out, nil
}

// FindOne returns the first item matching where, or nil when none does.
func (m *Model[T]) FindOne(ctx context.Context, where Where, opts FindOneOptions) (*T, error) {
	e, err := m.entities.FindOne(ctx, m.schema, where, opts)
	if err != nil || e == nil {
		return nil, err
	}
	item := m.meta.fromEntity(e).Interface().(T)
	return &item, nil
}

// Count returns the number of stored items matching where.
func (m *Model[T]) Count(ctx context.Context, where Where) (int64, error) {
	return m.entities.Count(ctx, m.schema, where)
}
