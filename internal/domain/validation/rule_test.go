package validation

import (
	"strings"
	"testing"
)

func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func TestEvaluate_StopsAtFirstFailure(t *testing.T) {
	called := false
	rules := []Rule{
		TypeCheck(isString),
		MinLength(3),
		Custom(func(any) Result { called = true; return Result{Success: true} }),
	}

	fe := Evaluate(rules, "ab", false)
	if fe == nil || fe.Kind != KindMinLength {
		t.Fatalf("got %v, want MIN_LENGTH", fe)
	}
	if called {
		t.Error("rules after a failure must not run")
	}
}

func TestEvaluate_AbsentValues(t *testing.T) {
	rules := []Rule{TypeCheck(isString), MinLength(3), MaxLength(5)}

	if fe := Evaluate(rules, nil, false); fe != nil {
		t.Errorf("optional absent value should pass, got %v", fe)
	}

	required := append([]Rule{rules[0], Required(isBlank)}, rules[1:]...)
	if fe := Evaluate(required, nil, true); fe == nil || fe.Kind != KindRequired {
		t.Errorf("required absent value: got %v", fe)
	}
	if fe := Evaluate(required, "   ", true); fe == nil || fe.Kind != KindRequired {
		t.Errorf("required blank value: got %v", fe)
	}
}

func TestEvaluate_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value any
		want  Kind
	}{
		{"min ok", MinValue(17), 17, ""},
		{"min fail", MinValue(17), 15, KindMinValue},
		{"min non-number", MinValue(17), "20", KindMinValue},
		{"max ok", MaxValue(30), 30.0, ""},
		{"max fail", MaxValue(30), int64(50), KindMaxValue},
		{"min length unicode", MinLength(3), "äöü", ""},
		{"max length fail", MaxLength(2), "abc", KindMaxLength},
		{"max length non-string", MaxLength(2), 1, KindMaxLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fe := Evaluate([]Rule{tc.rule}, tc.value, false)
			if tc.want == "" {
				if fe != nil {
					t.Fatalf("unexpected failure %v", fe)
				}
				return
			}
			if fe == nil || fe.Kind != tc.want {
				t.Fatalf("got %v, want %s", fe, tc.want)
			}
		})
	}
}

func TestEvaluate_Custom(t *testing.T) {
	rule := Custom(func(v any) Result {
		if v == "root" {
			return Result{Message: "RESERVED_NAME"}
		}
		return Result{Success: true}
	})

	fe := Evaluate([]Rule{rule}, "root", false)
	if fe == nil || fe.Kind != KindCustom || fe.Code() != "RESERVED_NAME" {
		t.Fatalf("got %v", fe)
	}
	if fe := Evaluate([]Rule{rule}, "alice", false); fe != nil {
		t.Errorf("unexpected failure %v", fe)
	}
	if fe := Evaluate([]Rule{Custom(nil)}, "x", false); fe != nil {
		t.Errorf("nil custom validator should pass, got %v", fe)
	}
}

func TestRuleAccessors(t *testing.T) {
	if r := MinValue(3); r.Kind() != RuleMinValue || r.Bound() != 3 {
		t.Errorf("min value = %+v", r)
	}
	if r := MaxLength(7); r.Kind() != RuleMaxLength || r.Length() != 7 {
		t.Errorf("max length = %+v", r)
	}
	if RuleCustom.String() != "custom" || RuleKind(42).String() != "rule(42)" {
		t.Error("unexpected RuleKind strings")
	}
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	if !errs.Empty() {
		t.Fatal("new Errors should be empty")
	}
	errs.Add("age", FieldError{Kind: KindMinValue})
	errs.Add("age", FieldError{Kind: KindUnique})
	errs.Add("nick", FieldError{Kind: KindCustom, Message: "RESERVED"})
	errs.Add("bio", FieldError{Kind: KindCustom})

	codes := errs.Codes()
	if codes["age"] != "MIN_VALUE" {
		t.Errorf("first failure per field wins, got %s", codes["age"])
	}
	if codes["nick"] != "RESERVED" || codes["bio"] != "CUSTOM" {
		t.Errorf("custom codes = %v", codes)
	}
}

func TestIsNilAndNumber(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *int
	for _, v := range []any{nil, nilMap, nilPtr, []string(nil)} {
		if !IsNil(v) {
			t.Errorf("IsNil(%#v) = false", v)
		}
	}
	for _, v := range []any{0, "", false, []string{}} {
		if IsNil(v) {
			t.Errorf("IsNil(%#v) = true", v)
		}
	}

	if n, ok := Number(uint8(7)); !ok || n != 7 {
		t.Errorf("Number(uint8) = %v, %v", n, ok)
	}
	if _, ok := Number("7"); ok {
		t.Error("strings are not numbers")
	}
}
