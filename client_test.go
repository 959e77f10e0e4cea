package entdoc

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/entdoc/internal/db"
)

func TestNew_InvalidParams(t *testing.T) {
	_, err := New(context.Background())
	if !errors.Is(err, db.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration without url or db, got %v", err)
	}

	_, err = New(context.Background(), WithURL("localhost/app"))
	if !errors.Is(err, db.ErrConnectionString) {
		t.Fatalf("expected ErrConnectionString, got %v", err)
	}
}

func TestWireClient_Defaults(t *testing.T) {
	store := newMemStore()
	c, err := wireClient(store, &clientConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Entities().Limits(); got.DefaultPer != 100 || got.MaxPer != 1000 {
		t.Errorf("limits = %+v", got)
	}
	if c.Registry() == nil {
		t.Fatal("expected a registry")
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
	if err := c.Close(context.Background()); err != nil || !store.closed {
		t.Errorf("close = %v, closed = %v", err, store.closed)
	}
}

func TestWireClient_Options(t *testing.T) {
	reg := NewRegistry()
	cfg := &clientConfig{}
	for _, o := range []Option{
		WithLimits(10, 50),
		WithRegistry(reg),
		WithPrometheus(prometheus.NewRegistry()),
	} {
		o.apply(cfg)
	}

	c, err := wireClient(newMemStore(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Entities().Limits(); got.DefaultPer != 10 || got.MaxPer != 50 {
		t.Errorf("limits = %+v", got)
	}
	if c.Registry() != reg {
		t.Error("expected the shared registry")
	}
	if _, ok := c.store.(*db.Instrumented); !ok {
		t.Errorf("expected instrumented store, got %T", c.store)
	}
}

func TestDefine(t *testing.T) {
	c, _ := wireClient(newMemStore(), &clientConfig{})

	s, err := c.Define("user", "users", Field("name", String, Required()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := c.Registry().Lookup("user"); !ok || got != s {
		t.Error("schema not registered")
	}

	_, err = c.Define("bad", "bads", Field("x", Type("TEXT")))
	if !errors.Is(err, ErrDefinition) {
		t.Errorf("expected ErrDefinition, got %v", err)
	}
}

func TestClient_EntityRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := wireClient(newMemStore(), &clientConfig{})
	users, _ := c.Define("user", "users",
		Field("name", String, Required()),
		Field("email", String, Alias("mail"), Unique()),
	)

	u := NewEntity(users, map[string]any{"name": "alice", "email": "a@x.io"})
	if err := c.Entities().Insert(ctx, u); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !u.HasID() {
		t.Fatal("expected identity after insert")
	}

	dup := NewEntity(users, map[string]any{"name": "bob", "email": "a@x.io"})
	err := c.Entities().Insert(ctx, dup)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Codes()["email"] != "UNIQUE" {
		t.Fatalf("expected UNIQUE on email, got %v", err)
	}

	docs, err := c.Queries().Find(ctx, "users", Where{"mail": "a@x.io"}, FindOptions{})
	if err != nil || len(docs) != 1 {
		t.Fatalf("raw find = %v, %v", docs, err)
	}
}
