package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

// New builds an entity from caller data keyed by entity-facing names.
func New(s *schema.Schema, data map[string]any) *Entity {
	return FromDocument(s, data, false)
}

// Load builds an entity from a stored document keyed by aliases.
func Load(s *schema.Schema, raw map[string]any) *Entity {
	return FromDocument(s, raw, true)
}

// FromDocument reads each param from raw (by alias when readAlias is set, else by name),
// coerces present values to the declared type and resolves defaults for absent ones.
func FromDocument(s *schema.Schema, raw map[string]any, readAlias bool) *Entity {
	e := &Entity{
		schema: s,
		values: make(map[string]any, s.Len()),
	}
	if id, ok := toObjectID(raw[schema.IDField]); ok {
		e.id = id
	}
	for _, p := range s.Params() {
		key := p.Name()
		if readAlias {
			key = p.Alias()
		}
		e.values[p.Name()] = coerce(p, raw[key])
	}
	return e
}

// ToDocument writes every value under its alias, plus _id when the entity has one.
func ToDocument(e *Entity) map[string]any {
	doc := make(map[string]any, len(e.values)+1)
	if e.HasID() {
		doc[schema.IDField] = e.id
	}
	for _, p := range e.schema.Params() {
		doc[p.Alias()] = e.values[p.Name()]
	}
	return doc
}

func coerce(p schema.Param, raw any) any {
	if validation.IsNil(raw) {
		return resolveDefault(p.Default())
	}
	return coercePresent(p.Type(), raw)
}

func coercePresent(t schema.Type, raw any) any {
	switch t {
	case schema.Date:
		if tm, ok := toTime(raw); ok {
			return tm
		}
	case schema.Boolean:
		if n, ok := validation.Number(raw); ok {
			return n == 1
		}
	case schema.ObjectID:
		if s, ok := raw.(string); ok {
			if id, err := primitive.ObjectIDFromHex(s); err == nil {
				return id
			}
		}
	}
	return raw
}

func resolveDefault(d schema.Default) any {
	switch d.Kind() {
	case schema.DefaultStatic:
		return d.Value()
	case schema.DefaultGenerator:
		return d.Generate()
	case schema.DefaultSentinel:
		switch d.Sentinel() {
		case schema.SentinelNow:
			// Stored dates have millisecond precision.
			return time.Now().UTC().Truncate(time.Millisecond)
		case schema.SentinelUUIDv1:
			id, err := uuid.NewUUID()
			if err != nil {
				return uuid.NewString()
			}
			return id.String()
		case schema.SentinelUUIDv4:
			return uuid.NewString()
		}
	}
	return nil
}

// dateLayouts are the string forms accepted for DATE values, tried in order.
// Layouts without a zone are read as UTC.
var dateLayouts = []string{time.RFC3339Nano, time.DateTime, "2006-01-02T15:04:05", time.DateOnly}

// toTime accepts time values, RFC 3339, date-time and date-only strings,
// and epoch milliseconds.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time().UTC(), true
	case string:
		for _, layout := range dateLayouts {
			if tm, err := time.Parse(layout, t); err == nil {
				return tm, true
			}
		}
		return time.Time{}, false
	}
	if n, ok := validation.Number(v); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	return time.Time{}, false
}

func toObjectID(v any) (primitive.ObjectID, bool) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id, !id.IsZero()
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		return oid, err == nil
	}
	return primitive.ObjectID{}, false
}
