package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/entdoc/internal/db"
)

// Compile-time check: collection implements db.Collection.
var _ db.Collection = (*collection)(nil)

type collection struct {
	conn *Connector
	name string
}

func (c *collection) Name() string { return c.name }

func (c *collection) handle() (*mongo.Collection, error) {
	client, err := c.conn.currentClient()
	if err != nil {
		return nil, err
	}
	return client.Database(c.conn.params.DB).Collection(c.name), nil
}

func (c *collection) Find(ctx context.Context, filter db.Document, p db.FindParams) ([]db.Document, error) {
	coll, err := c.handle()
	if err != nil {
		return nil, db.Wrap(db.OpFind, c.name, err)
	}

	opts := options.Find()
	if len(p.Projection) > 0 {
		opts.SetProjection(p.Projection)
	}
	if len(p.Sort) > 0 {
		opts.SetSort(sortDoc(p.Sort))
	}
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}

	cur, err := coll.Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, db.Wrap(db.OpFind, c.name, err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, db.Wrap(db.OpFind, c.name, err)
	}

	docs := make([]db.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}
	return docs, nil
}

func (c *collection) FindOne(ctx context.Context, filter db.Document, p db.FindOneParams) (db.Document, error) {
	coll, err := c.handle()
	if err != nil {
		return nil, db.Wrap(db.OpFindOne, c.name, err)
	}

	opts := options.FindOne()
	if len(p.Projection) > 0 {
		opts.SetProjection(p.Projection)
	}
	if len(p.Sort) > 0 {
		opts.SetSort(sortDoc(p.Sort))
	}

	var m bson.M
	err = coll.FindOne(ctx, filterDoc(filter), opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.Wrap(db.OpFindOne, c.name, db.ErrNoDocument)
	}
	if err != nil {
		return nil, db.Wrap(db.OpFindOne, c.name, err)
	}
	return toDocument(m), nil
}

func (c *collection) InsertOne(ctx context.Context, doc db.Document) (any, error) {
	coll, err := c.handle()
	if err != nil {
		return nil, db.Wrap(db.OpInsertOne, c.name, err)
	}
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, db.Wrap(db.OpInsertOne, c.name, err)
	}
	return res.InsertedID, nil
}

func (c *collection) UpdateMany(ctx context.Context, filter, update db.Document) (db.UpdateResult, error) {
	coll, err := c.handle()
	if err != nil {
		return db.UpdateResult{}, db.Wrap(db.OpUpdateMany, c.name, err)
	}
	res, err := coll.UpdateMany(ctx, filterDoc(filter), update)
	if err != nil {
		return db.UpdateResult{}, db.Wrap(db.OpUpdateMany, c.name, err)
	}
	return db.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (c *collection) DeleteMany(ctx context.Context, filter db.Document) (int64, error) {
	coll, err := c.handle()
	if err != nil {
		return 0, db.Wrap(db.OpDeleteMany, c.name, err)
	}
	res, err := coll.DeleteMany(ctx, filterDoc(filter))
	if err != nil {
		return 0, db.Wrap(db.OpDeleteMany, c.name, err)
	}
	return res.DeletedCount, nil
}

func (c *collection) CountDocuments(ctx context.Context, filter db.Document) (int64, error) {
	coll, err := c.handle()
	if err != nil {
		return 0, db.Wrap(db.OpCountDocuments, c.name, err)
	}
	n, err := coll.CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, db.Wrap(db.OpCountDocuments, c.name, err)
	}
	return n, nil
}

func (c *collection) Distinct(ctx context.Context, field string, filter db.Document) ([]any, error) {
	coll, err := c.handle()
	if err != nil {
		return nil, db.Wrap(db.OpDistinct, c.name, err)
	}
	vals, err := coll.Distinct(ctx, field, filterDoc(filter))
	if err != nil {
		return nil, db.Wrap(db.OpDistinct, c.name, err)
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = normalize(v)
	}
	return out, nil
}

// filterDoc substitutes an empty document for a nil filter; the driver rejects nil.
func filterDoc(f db.Document) any {
	if f == nil {
		return bson.M{}
	}
	return f
}

func sortDoc(keys []db.SortKey) bson.D {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k.Key, Value: k.Order})
	}
	return d
}

func toDocument(m bson.M) db.Document {
	out := make(db.Document, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

// normalize converts driver container types into plain maps and slices.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return toDocument(t)
	case bson.D:
		out := make(db.Document, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
