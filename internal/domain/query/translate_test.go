package query

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

func userSchema() *schema.Schema {
	return schema.MustNew("user", "users",
		schema.Field("name", schema.String),
		schema.Field("age", schema.Number, schema.Alias("user_age")),
		schema.Field("address", schema.Mixed, schema.Alias("addr")),
	)
}

func TestFilter(t *testing.T) {
	tr := NewTranslator(userSchema())

	got := tr.Filter(Where{
		"age":          map[string]any{"$gte": 18},
		"address.city": "Berlin",
		"_id":          "x",
		"unknown":      1,
		"$or": []any{
			map[string]any{"age": 20},
			Where{"name": "bob"},
			"literal",
		},
		"$and":   []Where{{"age": 1}},
		"$where": "this.a > 1",
	})

	want := map[string]any{
		"user_age":  map[string]any{"$gte": 18},
		"addr.city": "Berlin",
		"_id":       "x",
		"unknown":   1,
		"$or": []any{
			map[string]any{"user_age": 20},
			map[string]any{"name": "bob"},
			"literal",
		},
		"$and":   []any{map[string]any{"user_age": 1}},
		"$where": "this.a > 1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filter:\n got %v\nwant %v", got, want)
	}
}

func TestFilter_IdentityTranslator(t *testing.T) {
	var tr Translator
	got := tr.Filter(Where{"user_age": 3, "age": 4})
	if got["user_age"] != 3 || got["age"] != 4 {
		t.Errorf("zero translator must keep names, got %v", got)
	}
	if len(tr.Filter(nil)) != 0 {
		t.Error("nil filter should translate to an empty filter")
	}
}

func TestSort(t *testing.T) {
	tr := NewTranslator(userSchema())

	got := tr.Sort(Sort{Descending("age"), Ascending("name"), Ascending("ghost")})
	want := []SortKey{{Key: "user_age", Order: -1}, {Key: "name", Order: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort = %v, want %v", got, want)
	}
	if tr.Sort(nil) != nil {
		t.Error("empty sort should be nil")
	}
}

func TestProjection(t *testing.T) {
	tr := NewTranslator(userSchema())

	if tr.Projection(nil) != nil {
		t.Error("empty field list should select everything")
	}

	got := tr.Projection([]string{"age", "ghost"})
	want := map[string]int{"_id": 0, "user_age": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("projection = %v, want %v", got, want)
	}

	got = tr.Projection([]string{"_id", "name"})
	want = map[string]int{"_id": 1, "name": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("projection with _id = %v, want %v", got, want)
	}
}

func TestUpdate(t *testing.T) {
	tr := NewTranslator(userSchema())

	got, err := tr.Update(Update{
		Set:         map[string]any{"age": 20},
		Unset:       []string{"name"},
		Rename:      map[string]string{"address": "name"},
		Inc:         map[string]any{"age": 1},
		CurrentDate: map[string]CurrentDateType{"name": CurrentDate, "age": CurrentTimestamp},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"$set":    map[string]any{"user_age": 20},
		"$unset":  map[string]any{"name": ""},
		"$rename": map[string]any{"addr": "name"},
		"$inc":    map[string]any{"user_age": 1},
		"$currentDate": map[string]any{
			"name":     true,
			"user_age": map[string]any{"$type": "timestamp"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("update:\n got %v\nwant %v", got, want)
	}

	if _, err := tr.Update(Update{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("expected ErrEmptyUpdate, got %v", err)
	}
}

func TestField(t *testing.T) {
	tr := NewTranslator(userSchema())
	tests := map[string]string{
		"age":       "user_age",
		"age.x":     "user_age.x",
		"ghost":     "ghost",
		"_id":       "_id",
		"user_age":  "user_age",
		"address.a": "addr.a",
	}
	for in, want := range tests {
		if got := tr.Field(in); got != want {
			t.Errorf("Field(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLimitsWindow(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		page   *Page
		want   Window
	}{
		{"nil page", DefaultLimits(), nil, Window{Skip: 0, Limit: 100}},
		{"caller page kept", DefaultLimits(), &Page{Page: 3, Per: 20}, Window{Skip: 40, Limit: 20}},
		{"per capped", DefaultLimits(), &Page{Page: 1, Per: 5000}, Window{Skip: 0, Limit: 1000}},
		{"non-positive falls back", DefaultLimits(), &Page{Page: -1, Per: 0}, Window{Skip: 0, Limit: 100}},
		{"custom limits", Limits{DefaultPer: 10, MaxPer: 50}, &Page{Page: 2}, Window{Skip: 10, Limit: 10}},
		{"zero limits use defaults", Limits{}, nil, Window{Skip: 0, Limit: 100}},
		{"default above max", Limits{DefaultPer: 500, MaxPer: 50}, nil, Window{Skip: 0, Limit: 50}},
		{"huge page saturates skip", DefaultLimits(), &Page{Page: math.MaxInt64 / 10, Per: 100},
			Window{Skip: math.MaxInt64, Limit: 100}},
		{"largest exact skip", Limits{DefaultPer: 1, MaxPer: 1}, &Page{Page: math.MaxInt64},
			Window{Skip: math.MaxInt64 - 1, Limit: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.limits.Window(tc.page); got != tc.want {
				t.Errorf("Window = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestOptionsHelpers(t *testing.T) {
	if !Where(nil).IsEmpty() || (Where{"a": 1}).IsEmpty() {
		t.Error("Where.IsEmpty")
	}
	if !(Update{}).IsEmpty() || (Update{Unset: []string{"a"}}).IsEmpty() {
		t.Error("Update.IsEmpty")
	}
	if s := Descending("a"); s.Field != "a" || s.Direction != Desc {
		t.Errorf("Descending = %+v", s)
	}
}
