package schema

import (
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

// Type is the declared semantic type of a field.
type Type string

// Field type tags.
const (
	ObjectID Type = "OBJECT_ID"
	String   Type = "STRING"
	Number   Type = "NUMBER"
	Boolean  Type = "BOOLEAN"
	Date     Type = "DATE"
	Array    Type = "ARRAY"
	Mixed    Type = "MIXED"
)

var knownTypes = map[Type]bool{
	ObjectID: true, String: true, Number: true, Boolean: true,
	Date: true, Array: true, Mixed: true,
}

// Valid reports whether t is a recognized type tag.
func (t Type) Valid() bool { return knownTypes[t] }

// Accepts reports whether a present value has the shape of t.
func (t Type) Accepts(v any) bool {
	switch t {
	case String:
		s, ok := v.(string)
		return ok && s != ""
	case Number:
		_, ok := validation.Number(v)
		return ok
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Date:
		switch v.(type) {
		case time.Time, primitive.DateTime:
			return true
		}
		return false
	case Array:
		k := reflect.ValueOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	case ObjectID:
		switch id := v.(type) {
		case primitive.ObjectID:
			return true
		case string:
			return primitive.IsValidObjectID(id)
		}
		return false
	case Mixed:
		return true
	}
	return false
}

// IsEmpty reports whether a present value counts as absent for the required check.
func (t Type) IsEmpty(v any) bool {
	switch t {
	case String:
		s, ok := v.(string)
		return ok && strings.TrimSpace(s) == ""
	case Array:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			return rv.Len() == 0
		}
		return false
	case ObjectID:
		switch id := v.(type) {
		case primitive.ObjectID:
			return id.IsZero()
		case string:
			return id == ""
		}
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Slice && rv.Len() == 0
	case Boolean:
		_, ok := v.(bool)
		return !ok
	}
	return false
}
