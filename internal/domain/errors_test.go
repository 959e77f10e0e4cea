package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("users", validation.Errors{
		"name":  {Kind: validation.KindRequired},
		"email": {Kind: validation.KindUnique},
	})
	wrapped := fmt.Errorf("insert user: %w", err)

	if !errors.Is(wrapped, ErrEntityValidation) {
		t.Fatal("expected ErrEntityValidation")
	}
	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("expected *ValidationError")
	}
	if ve.Codes()["email"] != "UNIQUE" {
		t.Errorf("codes = %v", ve.Codes())
	}
	if !strings.HasSuffix(err.Error(), "users: email=UNIQUE, name=REQUIRED") {
		t.Errorf("message should list fields in order, got %q", err.Error())
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("users", map[string]any{"email": "a@x.io"})
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatal("expected ErrEntityNotFound")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Collection != "users" || nf.Filter["email"] != "a@x.io" {
		t.Fatalf("not found = %+v", nf)
	}
	if !strings.Contains(err.Error(), `"users"`) {
		t.Errorf("message should name the collection, got %q", err.Error())
	}
}

func TestUnguardedDeleteError(t *testing.T) {
	err := NewUnguardedDelete("users")
	if !errors.Is(err, ErrUnguardedDelete) {
		t.Fatal("expected ErrUnguardedDelete")
	}
	var ue *UnguardedDeleteError
	if !errors.As(err, &ue) || ue.Collection != "users" {
		t.Fatalf("unguarded = %+v", ue)
	}
}
