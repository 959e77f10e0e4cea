package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds one schema per entity type.
// Fill it at startup; lookups are safe from many goroutines.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Define builds a schema and registers it, replacing any previous schema for the entity type.
func (r *Registry) Define(entityType, collection string, defs ...Definition) (*Schema, error) {
	s, err := New(entityType, collection, defs...)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.schemas[entityType] = s
	r.mu.Unlock()
	return s, nil
}

// Lookup returns the schema registered for an entity type.
func (r *Registry) Lookup(entityType string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[entityType]
	return s, ok
}

// MustLookup returns the schema for an entity type or panics.
func (r *Registry) MustLookup(entityType string) *Schema {
	s, ok := r.Lookup(entityType)
	if !ok {
		panic(fmt.Sprintf("schema: entity type %q is not defined", entityType))
	}
	return s
}

// EntityTypes returns the registered entity types, sorted.
func (r *Registry) EntityTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.schemas))
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by the package-level helpers.
func DefaultRegistry() *Registry { return defaultRegistry }

// Define registers a schema in the process-wide registry.
func Define(entityType, collection string, defs ...Definition) (*Schema, error) {
	return defaultRegistry.Define(entityType, collection, defs...)
}

// MustDefine registers a schema in the process-wide registry or panics.
func MustDefine(entityType, collection string, defs ...Definition) *Schema {
	s, err := Define(entityType, collection, defs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup reads the process-wide registry.
func Lookup(entityType string) (*Schema, bool) {
	return defaultRegistry.Lookup(entityType)
}
