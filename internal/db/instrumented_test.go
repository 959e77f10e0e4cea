package db

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/entdoc/internal/metrics"
)

type stubStore struct {
	coll Collection
}

func (s *stubStore) Ping(context.Context) error   { return nil }
func (s *stubStore) Collection(string) Collection { return s.coll }
func (s *stubStore) Close(context.Context) error  { return nil }

type stubCollection struct {
	name     string
	findOne  error
	countErr error
}

func (c *stubCollection) Name() string { return c.name }
func (c *stubCollection) Find(context.Context, Document, FindParams) ([]Document, error) {
	return []Document{{"a": 1}}, nil
}
func (c *stubCollection) FindOne(context.Context, Document, FindOneParams) (Document, error) {
	return nil, c.findOne
}
func (c *stubCollection) InsertOne(context.Context, Document) (any, error) { return "id", nil }
func (c *stubCollection) UpdateMany(context.Context, Document, Document) (UpdateResult, error) {
	return UpdateResult{Matched: 1, Modified: 1}, nil
}
func (c *stubCollection) DeleteMany(context.Context, Document) (int64, error) { return 2, nil }
func (c *stubCollection) CountDocuments(context.Context, Document) (int64, error) {
	return 0, c.countErr
}
func (c *stubCollection) Distinct(context.Context, string, Document) ([]any, error) {
	return []any{"x"}, nil
}

func TestInstrumented_RecordsStatus(t *testing.T) {
	boom := errors.New("boom")
	inner := &stubCollection{
		name:     "instrumented_test",
		findOne:  Wrap(OpFindOne, "instrumented_test", ErrNoDocument),
		countErr: boom,
	}
	s := NewInstrumented(&stubStore{coll: inner}, nil)
	coll := s.Collection("instrumented_test")
	ctx := context.Background()

	docs, err := coll.Find(ctx, nil, FindParams{})
	if err != nil || len(docs) != 1 {
		t.Fatalf("Find = %v, %v", docs, err)
	}
	if _, err := coll.FindOne(ctx, nil, FindOneParams{}); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("FindOne err = %v", err)
	}
	if _, err := coll.CountDocuments(ctx, nil); !errors.Is(err, boom) {
		t.Fatalf("Count err = %v", err)
	}
	if n, err := coll.DeleteMany(ctx, Document{"a": 1}); err != nil || n != 2 {
		t.Fatalf("DeleteMany = %d, %v", n, err)
	}

	checks := []struct {
		op, status string
	}{
		{OpFind, "ok"},
		{OpFindOne, "not_found"},
		{OpCountDocuments, "error"},
		{OpDeleteMany, "ok"},
	}
	for _, c := range checks {
		got := testutil.ToFloat64(metrics.StoreOperationsTotal.WithLabelValues("instrumented_test", c.op, c.status))
		if got != 1 {
			t.Errorf("%s/%s counter = %v, want 1", c.op, c.status, got)
		}
	}
}

func TestInstrumented_DelegatesPing(t *testing.T) {
	s := NewInstrumented(&stubStore{coll: &stubCollection{name: "x"}}, nil)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Collection("x").Name() != "x" {
		t.Error("expected collection name passthrough")
	}
}
