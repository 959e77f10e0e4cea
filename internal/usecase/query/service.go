// Package query runs schema-less operations against a raw collection name.
// Field names are used as given; pagination and the delete guard match the
// entity service.
package query

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/db"
	"github.com/kailas-cloud/entdoc/internal/domain"
	domquery "github.com/kailas-cloud/entdoc/internal/domain/query"
)

// ErrCollectionRequired is returned when no collection name is given.
var ErrCollectionRequired = errors.New("collection name is required")

// Service executes free-form queries.
type Service struct {
	store  CollectionProvider
	logger *zap.Logger
	limits domquery.Limits
	tr     domquery.Translator
}

// New creates a free-form query service. A nil logger disables logging.
func New(store CollectionProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		limits: domquery.DefaultLimits(),
		tr:     domquery.NewTranslator(nil),
	}
}

// WithLimits configures pagination bounds for Find.
func (s *Service) WithLimits(l domquery.Limits) *Service {
	s.limits = l
	return s
}

func (s *Service) collection(name string) (db.Collection, error) {
	if name == "" {
		return nil, ErrCollectionRequired
	}
	return s.store.Collection(name), nil
}

// Find returns one page of raw documents.
func (s *Service) Find(
	ctx context.Context, collection string, where domquery.Where, opts domquery.FindOptions,
) ([]db.Document, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	win := s.limits.Window(opts.Page)
	docs, err := coll.Find(ctx, s.tr.Filter(where), db.FindParams{
		Projection: s.tr.Projection(opts.Fields),
		Sort:       sortKeys(s.tr.Sort(opts.Sort)),
		Skip:       win.Skip,
		Limit:      win.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return docs, nil
}

// FindOne returns the first matching document, or nil when none does.
func (s *Service) FindOne(
	ctx context.Context, collection string, where domquery.Where, opts domquery.FindOneOptions,
) (db.Document, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	doc, err := coll.FindOne(ctx, s.tr.Filter(where), db.FindOneParams{
		Projection: s.tr.Projection(opts.Fields),
		Sort:       sortKeys(s.tr.Sort(opts.Sort)),
	})
	if errors.Is(err, db.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one: %w", err)
	}
	return doc, nil
}

// FindOneOrNotFound is FindOne that reports absence as *domain.NotFoundError.
func (s *Service) FindOneOrNotFound(
	ctx context.Context, collection string, where domquery.Where, opts domquery.FindOneOptions,
) (db.Document, error) {
	doc, err := s.FindOne(ctx, collection, where, opts)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NewNotFound(collection, where)
	}
	return doc, nil
}

// Insert writes doc unvalidated and returns the assigned identity.
func (s *Service) Insert(ctx context.Context, collection string, doc db.Document) (any, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	id, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	s.logger.Info("document inserted", zap.String("collection", collection), zap.Any("id", id))
	return id, nil
}

// Update applies u to every matching document and returns the matched count.
func (s *Service) Update(ctx context.Context, collection string, u domquery.Update, where domquery.Where) (int64, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	upd, err := s.tr.Update(u)
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	res, err := coll.UpdateMany(ctx, s.tr.Filter(where), upd)
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	s.logger.Info("documents updated",
		zap.String("collection", collection),
		zap.Int64("matched", res.Matched),
		zap.Int64("modified", res.Modified),
	)
	return res.Matched, nil
}

// Remove deletes every matching document. An empty filter requires force.
func (s *Service) Remove(ctx context.Context, collection string, where domquery.Where, force bool) (int64, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	if where.IsEmpty() && !force {
		return 0, domain.NewUnguardedDelete(collection)
	}
	n, err := coll.DeleteMany(ctx, s.tr.Filter(where))
	if err != nil {
		return 0, fmt.Errorf("remove: %w", err)
	}
	s.logger.Info("documents removed", zap.String("collection", collection), zap.Int64("deleted", n))
	return n, nil
}

// Count returns the number of matching documents.
func (s *Service) Count(ctx context.Context, collection string, where domquery.Where) (int64, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, s.tr.Filter(where))
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Distinct returns the distinct values of field among matching documents.
func (s *Service) Distinct(ctx context.Context, collection, field string, where domquery.Where) ([]any, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	vals, err := coll.Distinct(ctx, field, s.tr.Filter(where))
	if err != nil {
		return nil, fmt.Errorf("distinct: %w", err)
	}
	return vals, nil
}

func sortKeys(keys []domquery.SortKey) []db.SortKey {
	if len(keys) == 0 {
		return nil
	}
	out := make([]db.SortKey, len(keys))
	for i, k := range keys {
		out[i] = db.SortKey{Key: k.Key, Order: k.Order}
	}
	return out
}
