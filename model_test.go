package entdoc

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type user struct {
	ID        primitive.ObjectID `entdoc:"_id"`
	Name      string             `entdoc:"name"`
	Email     string             `entdoc:"email"`
	Age       int                `entdoc:"age"`
	Tags      []string           `entdoc:"tags"`
	CreatedAt time.Time          `entdoc:"created_at"`
	Ignored   string
}

type hexUser struct {
	ID   string `entdoc:"_id"`
	Name string `entdoc:"name"`
}

func newModelClient(t *testing.T) (*Client, *Schema) {
	t.Helper()
	c, err := wireClient(newMemStore(), &clientConfig{})
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	s, err := c.Define("user", "users",
		Field("name", String, Required()),
		Field("email", String, Alias("mail"), Unique()),
		Field("age", Number, Min(0), WithDefault(Static(18))),
		Field("tags", Array),
		Field("created_at", Date, WithDefault(Now)),
	)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	return c, s
}

func TestModel_InsertFind(t *testing.T) {
	ctx := context.Background()
	c, s := newModelClient(t)
	m, err := NewModel[user](c, s)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	u := &user{Name: "alice", Email: "a@x.io", Age: 30, Tags: []string{"a", "b"}}
	if err := m.Insert(ctx, u); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.ID.IsZero() {
		t.Fatal("expected identity written back")
	}

	got, err := m.FindOne(ctx, Where{"email": "a@x.io"}, FindOneOptions{})
	if err != nil || got == nil {
		t.Fatalf("find one = %v, %v", got, err)
	}
	if got.ID != u.ID || got.Name != "alice" || got.Age != 30 {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "b" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at default not applied")
	}

	list, err := m.Find(ctx, nil, FindOptions{})
	if err != nil || len(list) != 1 {
		t.Fatalf("find = %v, %v", list, err)
	}
	if n, _ := m.Count(ctx, nil); n != 1 {
		t.Errorf("count = %d", n)
	}
}

func TestModel_FindOneAbsent(t *testing.T) {
	c, s := newModelClient(t)
	m, _ := NewModel[user](c, s)

	got, err := m.FindOne(context.Background(), Where{"name": "nobody"}, FindOneOptions{})
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestModel_Validation(t *testing.T) {
	c, s := newModelClient(t)
	m, _ := NewModel[user](c, s)

	err := m.Insert(context.Background(), &user{Age: -1})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	codes := ve.Codes()
	if codes["name"] != "REQUIRED" || codes["age"] != "MIN_VALUE" {
		t.Errorf("codes = %v", codes)
	}
}

func TestModel_UpdateRemove(t *testing.T) {
	ctx := context.Background()
	c, s := newModelClient(t)
	m, _ := NewModel[hexUser](c, s)

	u := &hexUser{Name: "alice"}
	if err := m.Insert(ctx, u); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(u.ID) != 24 {
		t.Fatalf("expected hex identity, got %q", u.ID)
	}

	u.Name = "alicia"
	if err := m.Update(ctx, *u); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := m.FindOne(ctx, Where{"name": "alicia"}, FindOneOptions{})
	if got == nil || got.ID != u.ID {
		t.Fatalf("updated = %+v", got)
	}

	if err := m.Remove(ctx, *u); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n, _ := m.Count(ctx, nil); n != 0 {
		t.Errorf("count after remove = %d", n)
	}

	if err := m.Update(ctx, hexUser{Name: "x"}); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("expected ErrMissingIdentity, got %v", err)
	}
	if err := m.Update(ctx, hexUser{ID: "zz", Name: "x"}); err == nil {
		t.Error("expected error for invalid hex identity")
	}
}

func TestNewModel_Errors(t *testing.T) {
	c, s := newModelClient(t)

	type unknownField struct {
		Nick string `entdoc:"nick"`
	}
	if _, err := NewModel[unknownField](c, s); err == nil {
		t.Error("expected error for a tag outside the schema")
	}

	type badID struct {
		ID int `entdoc:"_id"`
	}
	if _, err := NewModel[badID](c, s); err == nil {
		t.Error("expected error for a non-ObjectID identity")
	}

	if _, err := NewModel[*user](c, s); err == nil {
		t.Error("expected error for a pointer type")
	}
}
