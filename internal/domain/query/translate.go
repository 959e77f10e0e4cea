package query

import (
	"errors"
	"strings"

	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

// ErrEmptyUpdate signals an update with no directives.
var ErrEmptyUpdate = errors.New("update has no directives")

// SortKey is one native sort entry: 1 ascending, -1 descending.
type SortKey struct {
	Key   string
	Order int
}

// logicalOps take a list of sub-filters that are translated recursively.
var logicalOps = map[string]bool{"$and": true, "$or": true, "$nor": true}

// Translator rewrites entity field names into document keys.
// The zero Translator (nil schema) keeps every name as given.
type Translator struct {
	schema *schema.Schema
}

// NewTranslator creates a translator bound to a schema. s may be nil.
func NewTranslator(s *schema.Schema) Translator {
	return Translator{schema: s}
}

// resolve maps a field name, or the head of a dotted path, to its alias.
func (t Translator) resolve(name string) (string, bool) {
	if t.schema == nil || name == schema.IDField {
		return name, true
	}
	head, rest, dotted := strings.Cut(name, ".")
	alias, ok := t.schema.AliasOf(head)
	if !ok {
		return "", false
	}
	if dotted {
		return alias + "." + rest, true
	}
	return alias, true
}

// Field maps a field name to its document key, keeping unknown names unchanged.
func (t Translator) Field(name string) string {
	if alias, ok := t.resolve(name); ok {
		return alias
	}
	return name
}

// Filter translates top-level field keys. $and/$or/$nor lists are translated
// recursively; other operators and unknown keys pass through.
func (t Translator) Filter(w Where) map[string]any {
	out := make(map[string]any, len(w))
	for k, v := range w {
		if logicalOps[k] {
			out[k] = t.filterList(v)
			continue
		}
		if strings.HasPrefix(k, "$") {
			out[k] = v
			continue
		}
		out[t.Field(k)] = v
	}
	return out
}

func (t Translator) filterList(v any) any {
	switch list := v.(type) {
	case []Where:
		out := make([]any, len(list))
		for i, w := range list {
			out[i] = t.Filter(w)
		}
		return out
	case []map[string]any:
		out := make([]any, len(list))
		for i, w := range list {
			out[i] = t.Filter(w)
		}
		return out
	case []any:
		out := make([]any, len(list))
		for i, item := range list {
			switch w := item.(type) {
			case Where:
				out[i] = t.Filter(w)
			case map[string]any:
				out[i] = t.Filter(w)
			default:
				out[i] = item
			}
		}
		return out
	}
	return v
}

// Projection builds {_id: 0, alias: 1, ...}. Requesting _id flips it to 1.
// Unknown fields are dropped. An empty field list yields nil (all fields).
func (t Translator) Projection(fields []string) map[string]int {
	if len(fields) == 0 {
		return nil
	}
	proj := map[string]int{schema.IDField: 0}
	for _, f := range fields {
		if f == schema.IDField {
			proj[schema.IDField] = 1
			continue
		}
		if alias, ok := t.resolve(f); ok {
			proj[alias] = 1
		}
	}
	return proj
}

// Sort builds native sort keys. Unknown fields are dropped.
func (t Translator) Sort(s Sort) []SortKey {
	if len(s) == 0 {
		return nil
	}
	keys := make([]SortKey, 0, len(s))
	for _, sf := range s {
		alias, ok := t.resolve(sf.Field)
		if !ok {
			continue
		}
		order := 1
		if sf.Direction == Desc {
			order = -1
		}
		keys = append(keys, SortKey{Key: alias, Order: order})
	}
	return keys
}

// Update builds the native update document.
func (t Translator) Update(u Update) (map[string]any, error) {
	if u.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	out := make(map[string]any, 5)
	if len(u.Set) > 0 {
		out["$set"] = t.keyed(u.Set)
	}
	if len(u.Unset) > 0 {
		unset := make(map[string]any, len(u.Unset))
		for _, f := range u.Unset {
			unset[t.Field(f)] = ""
		}
		out["$unset"] = unset
	}
	if len(u.Rename) > 0 {
		rename := make(map[string]any, len(u.Rename))
		for from, to := range u.Rename {
			rename[t.Field(from)] = t.Field(to)
		}
		out["$rename"] = rename
	}
	if len(u.Inc) > 0 {
		out["$inc"] = t.keyed(u.Inc)
	}
	if len(u.CurrentDate) > 0 {
		cd := make(map[string]any, len(u.CurrentDate))
		for f, typ := range u.CurrentDate {
			if typ == CurrentTimestamp {
				cd[t.Field(f)] = map[string]any{"$type": string(CurrentTimestamp)}
				continue
			}
			cd[t.Field(f)] = true
		}
		out["$currentDate"] = cd
	}
	return out, nil
}

func (t Translator) keyed(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[t.Field(k)] = v
	}
	return out
}
