package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SchemaLister reports the entity types the process has defined.
type SchemaLister interface {
	EntityTypes() []string
}
