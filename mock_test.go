package entdoc

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/entdoc/internal/db"
)

// memStore is an in-memory db.Store matching on top-level equality and {"$ne": v}.
type memStore struct {
	mu     sync.Mutex
	colls  map[string]*memCollection
	closed bool
}

func newMemStore() *memStore { return &memStore{colls: map[string]*memCollection{}} }

func (s *memStore) Collection(name string) db.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.colls[name]
	if !ok {
		c = &memCollection{name: name}
		s.colls[name] = c
	}
	return c
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) Close(context.Context) error {
	s.closed = true
	return nil
}

type memCollection struct {
	mu   sync.Mutex
	name string
	docs []db.Document
}

func matches(doc, filter db.Document) bool {
	for k, want := range filter {
		got := doc[k]
		if op, ok := want.(map[string]any); ok {
			if ne, ok := op["$ne"]; ok && reflect.DeepEqual(got, ne) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func (m *memCollection) Name() string { return m.name }

func (m *memCollection) Find(_ context.Context, f db.Document, _ db.FindParams) ([]db.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Document
	for _, d := range m.docs {
		if matches(d, f) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memCollection) FindOne(ctx context.Context, f db.Document, _ db.FindOneParams) (db.Document, error) {
	docs, _ := m.Find(ctx, f, db.FindParams{})
	if len(docs) == 0 {
		return nil, db.ErrNoDocument
	}
	return docs[0], nil
}

func (m *memCollection) InsertOne(_ context.Context, doc db.Document) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := doc["_id"]
	if !ok {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	m.docs = append(m.docs, doc)
	return id, nil
}

func (m *memCollection) UpdateMany(_ context.Context, f, u db.Document) (db.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, _ := u["$set"].(map[string]any)
	var n int64
	for _, d := range m.docs {
		if !matches(d, f) {
			continue
		}
		n++
		for k, v := range set {
			d[k] = v
		}
	}
	return db.UpdateResult{Matched: n, Modified: n}, nil
}

func (m *memCollection) DeleteMany(_ context.Context, f db.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.docs[:0]
	var n int64
	for _, d := range m.docs {
		if matches(d, f) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	m.docs = kept
	return n, nil
}

func (m *memCollection) CountDocuments(ctx context.Context, f db.Document) (int64, error) {
	docs, _ := m.Find(ctx, f, db.FindParams{})
	return int64(len(docs)), nil
}

func (m *memCollection) Distinct(context.Context, string, db.Document) ([]any, error) {
	return nil, nil
}
