package query

import "github.com/kailas-cloud/entdoc/internal/db"

// CollectionProvider hands out named collections of one database.
type CollectionProvider interface {
	Collection(name string) db.Collection
}
