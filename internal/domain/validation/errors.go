// Package validation holds the ordered field rules and the interpreter that runs them.
package validation

// Kind is the closed set of validation failure kinds.
type Kind string

// Failure kinds.
const (
	KindRequired    Kind = "REQUIRED"
	KindInvalidType Kind = "INVALID_TYPE"
	// KindInvalidValue is reserved for values that have the right shape but an unusable content.
	KindInvalidValue Kind = "INVALID_VALUE"
	KindMinValue     Kind = "MIN_VALUE"
	KindMaxValue     Kind = "MAX_VALUE"
	KindMinLength    Kind = "MIN_LENGTH"
	KindMaxLength    Kind = "MAX_LENGTH"
	KindUnique       Kind = "UNIQUE"
	// KindCustom marks a failure reported by a caller-supplied validator.
	KindCustom Kind = "CUSTOM"
)

// FieldError is the single outcome reported for a failing field.
type FieldError struct {
	Kind    Kind
	Message string
}

// Code returns the reported code: the kind, or the validator's own message for custom failures.
func (e FieldError) Code() string {
	if e.Kind == KindCustom && e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Errors maps a field name to its failure. An empty map means valid.
type Errors map[string]FieldError

// Add records a failure unless the field already has one.
func (e Errors) Add(field string, fe FieldError) {
	if _, ok := e[field]; ok {
		return
	}
	e[field] = fe
}

// Codes flattens the failures into a field to code mapping.
func (e Errors) Codes() map[string]string {
	out := make(map[string]string, len(e))
	for field, fe := range e {
		out[field] = fe.Code()
	}
	return out
}

// Empty reports whether no field failed.
func (e Errors) Empty() bool { return len(e) == 0 }
