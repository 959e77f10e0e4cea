// Package query holds filter, sort, projection, pagination and update options
// expressed in entity-field vocabulary, and translates them to the store's native shape.
package query

// Where is a filter keyed by field name. Values use the store's operator syntax.
type Where map[string]any

// IsEmpty reports whether the filter matches every document.
func (w Where) IsEmpty() bool { return len(w) == 0 }

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortField orders results by one field.
type SortField struct {
	Field     string
	Direction Direction
}

// Sort is an ordered list of sort fields; earlier entries take precedence.
type Sort []SortField

// Ascending sorts by field in ascending order.
func Ascending(field string) SortField { return SortField{Field: field, Direction: Asc} }

// Descending sorts by field in descending order.
func Descending(field string) SortField { return SortField{Field: field, Direction: Desc} }

// Page selects a 1-based page of Per results.
type Page struct {
	Page int
	Per  int
}

// FindOptions shapes a multi-document read.
type FindOptions struct {
	Fields []string
	Sort   Sort
	// Page is nil for the default first page.
	Page *Page
}

// FindOneOptions shapes a single-document read.
type FindOneOptions struct {
	Fields []string
	Sort   Sort
}

// CurrentDateType selects the value type written by a CurrentDate directive.
type CurrentDateType string

// CurrentDate value types.
const (
	CurrentDate      CurrentDateType = "date"
	CurrentTimestamp CurrentDateType = "timestamp"
)

// Update is a set of update directives. Keys are entity field names.
type Update struct {
	Set         map[string]any
	Unset       []string
	Rename      map[string]string
	Inc         map[string]any
	CurrentDate map[string]CurrentDateType
}

// IsEmpty reports whether the update has no directives.
func (u Update) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.Unset) == 0 && len(u.Rename) == 0 &&
		len(u.Inc) == 0 && len(u.CurrentDate) == 0
}
