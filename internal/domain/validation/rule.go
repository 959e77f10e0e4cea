package validation

import (
	"fmt"
	"reflect"
	"unicode/utf8"
)

// RuleKind tags a Rule variant.
type RuleKind int

// Rule variants, listed in evaluation order.
const (
	RuleTypeCheck RuleKind = iota
	RuleRequired
	RuleMinValue
	RuleMaxValue
	RuleMinLength
	RuleMaxLength
	RuleCustom
)

func (k RuleKind) String() string {
	switch k {
	case RuleTypeCheck:
		return "type_check"
	case RuleRequired:
		return "required"
	case RuleMinValue:
		return "min_value"
	case RuleMaxValue:
		return "max_value"
	case RuleMinLength:
		return "min_length"
	case RuleMaxLength:
		return "max_length"
	case RuleCustom:
		return "custom"
	default:
		return fmt.Sprintf("rule(%d)", int(k))
	}
}

// Result is what a custom validator returns.
type Result struct {
	Success bool
	Message string
}

// Validator is a caller-supplied predicate over a field value.
type Validator func(value any) Result

// Rule is a single validation step. Build it with the variant constructors.
type Rule struct {
	kind   RuleKind
	pred   func(any) bool
	bound  float64
	length int
	custom Validator
}

// TypeCheck passes absent values and values accepted by accepts.
func TypeCheck(accepts func(any) bool) Rule {
	return Rule{kind: RuleTypeCheck, pred: accepts}
}

// Required fails when isEmpty reports the value as absent.
func Required(isEmpty func(any) bool) Rule {
	return Rule{kind: RuleRequired, pred: isEmpty}
}

// MinValue requires a numeric value >= n.
func MinValue(n float64) Rule { return Rule{kind: RuleMinValue, bound: n} }

// MaxValue requires a numeric value <= n.
func MaxValue(n float64) Rule { return Rule{kind: RuleMaxValue, bound: n} }

// MinLength requires a string of at least n characters.
func MinLength(n int) Rule { return Rule{kind: RuleMinLength, length: n} }

// MaxLength requires a string of at most n characters.
func MaxLength(n int) Rule { return Rule{kind: RuleMaxLength, length: n} }

// Custom wraps a caller-supplied validator.
func Custom(v Validator) Rule { return Rule{kind: RuleCustom, custom: v} }

// Kind returns the variant tag.
func (r Rule) Kind() RuleKind { return r.kind }

// Bound returns the numeric bound of a MinValue/MaxValue rule.
func (r Rule) Bound() float64 { return r.bound }

// Length returns the bound of a MinLength/MaxLength rule.
func (r Rule) Length() int { return r.length }

// Evaluate runs rules in order and stops at the first failure.
// Bound rules skip absent values unless required is set.
func Evaluate(rules []Rule, value any, required bool) *FieldError {
	for i := range rules {
		if fe := rules[i].check(value, required); fe != nil {
			return fe
		}
	}
	return nil
}

func (r Rule) check(value any, required bool) *FieldError {
	absent := IsNil(value)
	switch r.kind {
	case RuleTypeCheck:
		if absent || r.pred == nil || r.pred(value) {
			return nil
		}
		return &FieldError{Kind: KindInvalidType}
	case RuleRequired:
		if absent || (r.pred != nil && r.pred(value)) {
			return &FieldError{Kind: KindRequired}
		}
		return nil
	case RuleMinValue, RuleMaxValue:
		if absent && !required {
			return nil
		}
		n, ok := Number(value)
		if r.kind == RuleMinValue {
			if ok && n >= r.bound {
				return nil
			}
			return &FieldError{Kind: KindMinValue}
		}
		if ok && n <= r.bound {
			return nil
		}
		return &FieldError{Kind: KindMaxValue}
	case RuleMinLength, RuleMaxLength:
		if absent && !required {
			return nil
		}
		s, ok := value.(string)
		n := utf8.RuneCountInString(s)
		if r.kind == RuleMinLength {
			if ok && n >= r.length {
				return nil
			}
			return &FieldError{Kind: KindMinLength}
		}
		if ok && n <= r.length {
			return nil
		}
		return &FieldError{Kind: KindMaxLength}
	case RuleCustom:
		if r.custom == nil {
			return nil
		}
		res := r.custom(value)
		if res.Success {
			return nil
		}
		return &FieldError{Kind: KindCustom, Message: res.Message}
	}
	return nil
}

// IsNil reports whether v is absent: a nil interface or a nil pointer, map or slice.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Number converts any Go integer or float kind to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
