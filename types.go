package entdoc

import (
	"github.com/kailas-cloud/entdoc/internal/db/mongo"
	"github.com/kailas-cloud/entdoc/internal/domain"
	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	"github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	"github.com/kailas-cloud/entdoc/internal/domain/validation"
)

// Schema types.
type (
	Schema     = schema.Schema
	Registry   = schema.Registry
	Definition = schema.Definition
	FieldOpt   = schema.Option
	Type       = schema.Type
	Default    = schema.Default
	Entity     = domentity.Entity
)

// Field types.
const (
	ObjectID = schema.ObjectID
	String   = schema.String
	Number   = schema.Number
	Boolean  = schema.Boolean
	Date     = schema.Date
	Array    = schema.Array
	Mixed    = schema.Mixed
)

// Sentinel defaults.
var (
	Null   = schema.Null
	Now    = schema.Now
	UUIDv1 = schema.UUIDv1
	UUIDv4 = schema.UUIDv4
)

// Field declaration helpers.
var (
	Field       = schema.Field
	Required    = schema.Required
	Unique      = schema.Unique
	Alias       = schema.Alias
	WithDefault = schema.WithDefault
	Min         = schema.Min
	Max         = schema.Max
	MinLength   = schema.MinLength
	MaxLength   = schema.MaxLength
	Validate    = schema.Validate
	Static      = schema.Static
	Generator   = schema.Generator
	NewRegistry = schema.NewRegistry
)

// NewEntity builds an entity from data keyed by field name. Absent fields take their defaults.
func NewEntity(s *Schema, data map[string]any) *Entity { return domentity.New(s, data) }

// Validation types.
type (
	Validator        = validation.Validator
	ValidationResult = validation.Result
	FieldError       = validation.FieldError
	ValidationErrors = validation.Errors
	ErrorKind        = validation.Kind
)

// Query types.
type (
	Where          = query.Where
	Sort           = query.Sort
	SortField      = query.SortField
	Page           = query.Page
	FindOptions    = query.FindOptions
	FindOneOptions = query.FindOneOptions
	Update         = query.Update
	Limits         = query.Limits
)

// Sort helpers.
var (
	Ascending  = query.Ascending
	Descending = query.Descending
)

// Connection parameters.
type Params = mongo.Params

// Errors.
type (
	ValidationError      = domain.ValidationError
	NotFoundError        = domain.NotFoundError
	UnguardedDeleteError = domain.UnguardedDeleteError
)

// Sentinel errors.
var (
	ErrEntityValidation = domain.ErrEntityValidation
	ErrEntityNotFound   = domain.ErrEntityNotFound
	ErrUnguardedDelete  = domain.ErrUnguardedDelete
	ErrMissingIdentity  = domain.ErrMissingIdentity
	ErrEmptyUpdate      = query.ErrEmptyUpdate
	ErrDefinition       = schema.ErrDefinition
)
