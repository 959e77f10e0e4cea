package entity

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/db"
	"github.com/kailas-cloud/entdoc/internal/domain"
	domentity "github.com/kailas-cloud/entdoc/internal/domain/entity"
	"github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
)

// Service persists and reads schema-bound entities.
type Service struct {
	store  CollectionProvider
	logger *zap.Logger
	limits query.Limits
}

// New creates an entity service. A nil logger disables logging.
func New(store CollectionProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		limits: query.DefaultLimits(),
	}
}

// WithLimits configures pagination bounds for Find.
func (s *Service) WithLimits(l query.Limits) *Service {
	s.limits = l
	return s
}

// Limits returns the configured pagination bounds.
func (s *Service) Limits() query.Limits { return s.limits }

// Insert validates e and writes it. On success e carries the assigned identity.
func (s *Service) Insert(ctx context.Context, e *domentity.Entity) error {
	sc := e.Schema()
	if err := s.checkWritable(ctx, e); err != nil {
		return err
	}

	id, err := s.store.Collection(sc.Collection()).InsertOne(ctx, domentity.ToDocument(e))
	if err != nil {
		return fmt.Errorf("insert %s: %w", sc.EntityType(), err)
	}
	if oid, ok := id.(primitive.ObjectID); ok {
		e.SetID(oid)
	}

	s.logger.Info("entity inserted",
		zap.String("collection", sc.Collection()),
		zap.String("id", e.ID().Hex()),
	)
	return nil
}

// Update validates e and overwrites every field of the stored document with its identity.
func (s *Service) Update(ctx context.Context, e *domentity.Entity) error {
	sc := e.Schema()
	if !e.HasID() {
		return fmt.Errorf("update %s: %w", sc.EntityType(), domain.ErrMissingIdentity)
	}
	if err := s.checkWritable(ctx, e); err != nil {
		return err
	}

	doc := domentity.ToDocument(e)
	delete(doc, schema.IDField)

	res, err := s.store.Collection(sc.Collection()).UpdateMany(ctx,
		db.Document{schema.IDField: e.ID()},
		db.Document{"$set": doc},
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", sc.EntityType(), err)
	}

	s.logger.Info("entity updated",
		zap.String("collection", sc.Collection()),
		zap.String("id", e.ID().Hex()),
		zap.Int64("matched", res.Matched),
	)
	return nil
}

// Remove deletes the stored document of e and returns the deleted count.
func (s *Service) Remove(ctx context.Context, e *domentity.Entity) (int64, error) {
	sc := e.Schema()
	if !e.HasID() {
		return 0, fmt.Errorf("remove %s: %w", sc.EntityType(), domain.ErrMissingIdentity)
	}

	n, err := s.store.Collection(sc.Collection()).DeleteMany(ctx, db.Document{schema.IDField: e.ID()})
	if err != nil {
		return 0, fmt.Errorf("remove %s: %w", sc.EntityType(), err)
	}

	s.logger.Info("entity removed",
		zap.String("collection", sc.Collection()),
		zap.String("id", e.ID().Hex()),
		zap.Int64("deleted", n),
	)
	return n, nil
}

// RemoveAll deletes every document matching where. An empty filter is
// rejected with *domain.UnguardedDeleteError unless force is set.
func (s *Service) RemoveAll(ctx context.Context, sc *schema.Schema, where query.Where, force bool) (int64, error) {
	if where.IsEmpty() && !force {
		return 0, domain.NewUnguardedDelete(sc.Collection())
	}

	tr := query.NewTranslator(sc)
	n, err := s.store.Collection(sc.Collection()).DeleteMany(ctx, tr.Filter(where))
	if err != nil {
		return 0, fmt.Errorf("remove all %s: %w", sc.EntityType(), err)
	}

	s.logger.Info("entities removed",
		zap.String("collection", sc.Collection()),
		zap.Int64("deleted", n),
		zap.Bool("forced", force && where.IsEmpty()),
	)
	return n, nil
}

// UpdateAll applies u to every document matching where and returns the matched count.
// Directives bypass field validation.
func (s *Service) UpdateAll(ctx context.Context, sc *schema.Schema, u query.Update, where query.Where) (int64, error) {
	tr := query.NewTranslator(sc)
	upd, err := tr.Update(u)
	if err != nil {
		return 0, fmt.Errorf("update all %s: %w", sc.EntityType(), err)
	}

	res, err := s.store.Collection(sc.Collection()).UpdateMany(ctx, tr.Filter(where), upd)
	if err != nil {
		return 0, fmt.Errorf("update all %s: %w", sc.EntityType(), err)
	}

	s.logger.Info("entities updated",
		zap.String("collection", sc.Collection()),
		zap.Int64("matched", res.Matched),
		zap.Int64("modified", res.Modified),
	)
	return res.Matched, nil
}

// Find returns one page of entities matching where.
func (s *Service) Find(
	ctx context.Context, sc *schema.Schema, where query.Where, opts query.FindOptions,
) ([]*domentity.Entity, error) {
	tr := query.NewTranslator(sc)
	win := s.limits.Window(opts.Page)

	docs, err := s.store.Collection(sc.Collection()).Find(ctx, tr.Filter(where), db.FindParams{
		Projection: tr.Projection(opts.Fields),
		Sort:       sortKeys(tr.Sort(opts.Sort)),
		Skip:       win.Skip,
		Limit:      win.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", sc.EntityType(), err)
	}

	out := make([]*domentity.Entity, len(docs))
	for i, doc := range docs {
		out[i] = domentity.Load(sc, doc)
	}
	return out, nil
}

// FindOne returns the first entity matching where, or nil when none does.
func (s *Service) FindOne(
	ctx context.Context, sc *schema.Schema, where query.Where, opts query.FindOneOptions,
) (*domentity.Entity, error) {
	tr := query.NewTranslator(sc)

	doc, err := s.store.Collection(sc.Collection()).FindOne(ctx, tr.Filter(where), db.FindOneParams{
		Projection: tr.Projection(opts.Fields),
		Sort:       sortKeys(tr.Sort(opts.Sort)),
	})
	if errors.Is(err, db.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", sc.EntityType(), err)
	}
	return domentity.Load(sc, doc), nil
}

// FindOneOrNotFound is FindOne that reports absence as *domain.NotFoundError.
func (s *Service) FindOneOrNotFound(
	ctx context.Context, sc *schema.Schema, where query.Where, opts query.FindOneOptions,
) (*domentity.Entity, error) {
	e, err := s.FindOne(ctx, sc, where, opts)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NewNotFound(sc.Collection(), where)
	}
	return e, nil
}

// Count returns the number of documents matching where.
func (s *Service) Count(ctx context.Context, sc *schema.Schema, where query.Where) (int64, error) {
	tr := query.NewTranslator(sc)
	n, err := s.store.Collection(sc.Collection()).CountDocuments(ctx, tr.Filter(where))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", sc.EntityType(), err)
	}
	return n, nil
}

// Distinct returns the distinct values of field among documents matching where.
func (s *Service) Distinct(ctx context.Context, sc *schema.Schema, field string, where query.Where) ([]any, error) {
	tr := query.NewTranslator(sc)
	vals, err := s.store.Collection(sc.Collection()).Distinct(ctx, tr.Field(field), tr.Filter(where))
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", sc.EntityType(), field, err)
	}
	return vals, nil
}

// checkWritable runs Validate and turns failures into errors.
func (s *Service) checkWritable(ctx context.Context, e *domentity.Entity) error {
	sc := e.Schema()
	errs, err := s.Validate(ctx, e)
	if err != nil {
		return fmt.Errorf("validate %s: %w", sc.EntityType(), err)
	}
	if errs.Empty() {
		return nil
	}

	s.recordRejection(sc.Collection(), errs)
	s.logger.Info("entity rejected",
		zap.String("collection", sc.Collection()),
		zap.Any("errors", errs.Codes()),
	)
	return domain.NewValidationError(sc.Collection(), errs)
}

func sortKeys(keys []query.SortKey) []db.SortKey {
	if len(keys) == 0 {
		return nil
	}
	out := make([]db.SortKey, len(keys))
	for i, k := range keys {
		out[i] = db.SortKey{Key: k.Key, Order: k.Order}
	}
	return out
}
