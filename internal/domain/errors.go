package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

var (
	// ErrEntityValidation signals that an entity failed validation before a write.
	ErrEntityValidation = errors.New("entity validation failed")
	// ErrEntityNotFound signals that no document matched a required lookup.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrUnguardedDelete signals a bulk delete with an empty filter and no force flag.
	ErrUnguardedDelete = errors.New("unguarded delete")
	// ErrMissingIdentity signals an operation that needs a persisted entity.
	ErrMissingIdentity = errors.New("entity has no identity")
)

// ValidationError carries the per-field failures of a rejected entity.
type ValidationError struct {
	Collection string
	Errors     validation.Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, name := range fields {
		parts[i] = name + "=" + e.Errors[name].Code()
	}
	return fmt.Sprintf("%s: %s: %s", ErrEntityValidation.Error(), e.Collection, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrEntityValidation }

// Codes returns the field to code mapping.
func (e *ValidationError) Codes() map[string]string { return e.Errors.Codes() }

// NewValidationError creates a validation error for a collection.
func NewValidationError(collection string, errs validation.Errors) error {
	return &ValidationError{Collection: collection, Errors: errs}
}

// NotFoundError is returned by the strict single-document lookup.
type NotFoundError struct {
	Collection string
	Filter     map[string]any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: collection %q, filter %v", ErrEntityNotFound.Error(), e.Collection, e.Filter)
}

func (e *NotFoundError) Unwrap() error { return ErrEntityNotFound }

// NewNotFound creates a not-found error with the lookup context.
func NewNotFound(collection string, filter map[string]any) error {
	return &NotFoundError{Collection: collection, Filter: filter}
}

// UnguardedDeleteError is returned when a bulk delete would match every document.
type UnguardedDeleteError struct {
	Collection string
}

func (e *UnguardedDeleteError) Error() string {
	return fmt.Sprintf("%s: collection %q: a filter is required unless the delete is forced",
		ErrUnguardedDelete.Error(), e.Collection)
}

func (e *UnguardedDeleteError) Unwrap() error { return ErrUnguardedDelete }

// NewUnguardedDelete creates an unguarded delete error.
func NewUnguardedDelete(collection string) error {
	return &UnguardedDeleteError{Collection: collection}
}
