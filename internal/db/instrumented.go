package db

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/metrics"
)

// Instrumented wraps a Store, recording per-operation metrics and debug logs.
type Instrumented struct {
	Store
	logger *zap.Logger
}

// NewInstrumented decorates s. A nil logger disables logging.
func NewInstrumented(s Store, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{Store: s, logger: logger}
}

// Collection returns an instrumented collection handle.
func (i *Instrumented) Collection(name string) Collection {
	return &instrumentedCollection{next: i.Store.Collection(name), logger: i.logger}
}

type instrumentedCollection struct {
	next   Collection
	logger *zap.Logger
}

func (c *instrumentedCollection) observe(op string, start time.Time, err error) {
	name := c.next.Name()
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNoDocument):
		status = "not_found"
	default:
		status = "error"
	}
	elapsed := time.Since(start)
	metrics.StoreOperationsTotal.WithLabelValues(name, op, status).Inc()
	metrics.StoreOperationDuration.WithLabelValues(name, op).Observe(elapsed.Seconds())

	if status == "error" {
		c.logger.Warn("store operation failed",
			zap.String("collection", name),
			zap.String("op", op),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("store operation",
		zap.String("collection", name),
		zap.String("op", op),
		zap.Duration("elapsed", elapsed),
	)
}

func (c *instrumentedCollection) Name() string { return c.next.Name() }

func (c *instrumentedCollection) Find(ctx context.Context, filter Document, p FindParams) ([]Document, error) {
	start := time.Now()
	docs, err := c.next.Find(ctx, filter, p)
	c.observe(OpFind, start, err)
	return docs, err
}

func (c *instrumentedCollection) FindOne(ctx context.Context, filter Document, p FindOneParams) (Document, error) {
	start := time.Now()
	doc, err := c.next.FindOne(ctx, filter, p)
	c.observe(OpFindOne, start, err)
	return doc, err
}

func (c *instrumentedCollection) InsertOne(ctx context.Context, doc Document) (any, error) {
	start := time.Now()
	id, err := c.next.InsertOne(ctx, doc)
	c.observe(OpInsertOne, start, err)
	return id, err
}

func (c *instrumentedCollection) UpdateMany(ctx context.Context, filter, update Document) (UpdateResult, error) {
	start := time.Now()
	res, err := c.next.UpdateMany(ctx, filter, update)
	c.observe(OpUpdateMany, start, err)
	return res, err
}

func (c *instrumentedCollection) DeleteMany(ctx context.Context, filter Document) (int64, error) {
	start := time.Now()
	n, err := c.next.DeleteMany(ctx, filter)
	c.observe(OpDeleteMany, start, err)
	return n, err
}

func (c *instrumentedCollection) CountDocuments(ctx context.Context, filter Document) (int64, error) {
	start := time.Now()
	n, err := c.next.CountDocuments(ctx, filter)
	c.observe(OpCountDocuments, start, err)
	return n, err
}

func (c *instrumentedCollection) Distinct(ctx context.Context, field string, filter Document) ([]any, error) {
	start := time.Now()
	vals, err := c.next.Distinct(ctx, field, filter)
	c.observe(OpDistinct, start, err)
	return vals, err
}
