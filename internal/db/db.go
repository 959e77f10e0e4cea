package db

import "context"

// Document is a raw, untyped stored document.
type Document = map[string]any

// SortKey is one sort entry: 1 ascending, -1 descending.
type SortKey struct {
	Key   string
	Order int
}

// FindParams shapes a multi-document read. Zero values mean "not set".
type FindParams struct {
	Projection map[string]int
	Sort       []SortKey
	Skip       int64
	Limit      int64
}

// FindOneParams shapes a single-document read.
type FindOneParams struct {
	Projection map[string]int
	Sort       []SortKey
}

// UpdateResult reports how many documents an update matched and modified.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Collection is the capability set of one named collection.
type Collection interface {
	Name() string
	Find(ctx context.Context, filter Document, p FindParams) ([]Document, error)
	// FindOne returns ErrNoDocument when nothing matches.
	FindOne(ctx context.Context, filter Document, p FindOneParams) (Document, error)
	InsertOne(ctx context.Context, doc Document) (any, error)
	UpdateMany(ctx context.Context, filter, update Document) (UpdateResult, error)
	DeleteMany(ctx context.Context, filter Document) (int64, error)
	CountDocuments(ctx context.Context, filter Document) (int64, error)
	Distinct(ctx context.Context, field string, filter Document) ([]any, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store hands out collections of one database.
type Store interface {
	Pinger
	Collection(name string) Collection
	Close(ctx context.Context) error
}
