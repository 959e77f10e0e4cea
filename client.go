package entdoc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/db"
	"github.com/kailas-cloud/entdoc/internal/db/mongo"
	"github.com/kailas-cloud/entdoc/internal/domain/query"
	"github.com/kailas-cloud/entdoc/internal/domain/schema"
	"github.com/kailas-cloud/entdoc/internal/metrics"
	entityuc "github.com/kailas-cloud/entdoc/internal/usecase/entity"
	queryuc "github.com/kailas-cloud/entdoc/internal/usecase/query"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the entdoc entry point.
type Client struct {
	store    db.Store
	registry *schema.Registry
	entities *entityuc.Service
	queries  *queryuc.Service
	logger   *zap.Logger
}

// New resolves connection parameters, connects and waits for the server.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	mopts := []mongo.Option{mongo.WithLogger(cfg.logger)}
	if cfg.appName != "" {
		mopts = append(mopts, mongo.WithAppName(cfg.appName))
	}
	if cfg.connectTimeout > 0 {
		mopts = append(mopts, mongo.WithTimeout(cfg.connectTimeout))
	}
	conn, err := mongo.New(cfg.params, mopts...)
	if err != nil {
		return nil, fmt.Errorf("entdoc: %w", err)
	}
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("entdoc: %w", err)
	}
	if err := conn.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("entdoc: database not ready: %w", err)
	}

	return wireClient(conn, cfg)
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.metricsReg != nil {
		if err := metrics.RegisterStoreMetricsOn(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("entdoc: %w", err)
		}
		store = db.NewInstrumented(store, cfg.logger)
	}

	registry := cfg.registry
	if registry == nil {
		registry = schema.NewRegistry()
	}
	limits := cfg.limits
	if limits == (query.Limits{}) {
		limits = query.DefaultLimits()
	}

	return &Client{
		store:    store,
		registry: registry,
		entities: entityuc.New(store, cfg.logger).WithLimits(limits),
		queries:  queryuc.New(store, cfg.logger).WithLimits(limits),
		logger:   cfg.logger,
	}, nil
}

// Close disconnects from the server.
func (c *Client) Close(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Close(ctx); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Define builds a schema and registers it under entityType.
func (c *Client) Define(entityType, collection string, defs ...Definition) (*Schema, error) {
	s, err := c.registry.Define(entityType, collection, defs...)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", entityType, err)
	}
	c.logger.Debug("entity type defined",
		zap.String("entity_type", entityType),
		zap.String("collection", collection),
		zap.Int("fields", s.Len()),
	)
	return s, nil
}

// Registry returns the schema registry.
func (c *Client) Registry() *Registry { return c.registry }

// Entities returns the schema-bound persistence service.
func (c *Client) Entities() *entityuc.Service { return c.entities }

// Queries returns the free-form collection service.
func (c *Client) Queries() *queryuc.Service { return c.queries }
